// Command create_dataset writes a synthetic person dataset in every readable
// format, for exercising readers and the CLI against realistic files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/TFMV/tableio/pkg/writers"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
)

const (
	defaultRows   = 100000
	defaultOutDir = "test_data"
	defaultSeed   = 42

	firstNames = "John,Jane,Bob,Mary,Alice,David,Emma,Michael,Olivia,James,Sophia,William,Ava,Benjamin,Mia,Daniel,Charlotte,Matthew,Amelia,Henry"
	lastNames  = "Smith,Johnson,Williams,Jones,Brown,Davis,Miller,Wilson,Moore,Taylor,Anderson,Thomas,Jackson,White,Harris,Martin,Thompson,Garcia,Martinez,Robinson"
	domains    = "gmail.com,yahoo.com,hotmail.com,outlook.com,icloud.com,example.com"
)

// Config for the data generator
type Config struct {
	rowCount   int
	outputDir  string
	baseName   string
	formats    []core.Format
	randomSeed int64
	nullRate   float64
}

// schema is the generated layout; textDtypes is the matching reader dtype list.
var (
	schema = arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.BinaryTypes.String},
		{Name: "firstname", Type: arrow.BinaryTypes.String},
		{Name: "lastname", Type: arrow.BinaryTypes.String},
		{Name: "email", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "age", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "active", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "signup", Type: arrow.FixedWidthTypes.Timestamp_ms},
	}, nil)
	textDtypes = []string{"str", "str", "str", "str", "int", "float", "bool", "datetime"}
)

func main() {
	config := parseFlags()

	if err := os.MkdirAll(config.outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	rnd := rand.New(rand.NewSource(config.randomSeed))
	table := generateTable(config, rnd)
	defer table.Release()

	ctx := context.Background()
	for _, format := range config.formats {
		path := filepath.Join(config.outputDir, config.baseName+"."+extension(format))
		w, err := writers.GetIOWriter(string(core.SourceNFS), core.WriterConfig{
			OutputPath:   path,
			OutputFormat: format,
			Header:       true,
		})
		if err != nil {
			log.Fatalf("Invalid writer configuration for %s: %v", format, err)
		}
		if err := w.Write(ctx, table); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("Wrote %d rows to %s", table.NumRows(), path)
	}

	// Text files need the column names and types spelled out for reading back.
	fmt.Printf("schema: [%s]\n", strings.Join(schemaNames(), ", "))
	fmt.Printf("dtype: [%s]\n", strings.Join(textDtypes, ", "))
	fmt.Println("header: 1")
}

func parseFlags() Config {
	config := Config{}
	var formats string

	flag.IntVar(&config.rowCount, "rows", defaultRows, "Number of rows to generate")
	flag.StringVar(&config.outputDir, "out", defaultOutDir, "Output directory")
	flag.StringVar(&config.baseName, "name", "person", "Base file name")
	flag.StringVar(&formats, "formats", "text,parquet,orc", "Comma-separated output formats")
	flag.Int64Var(&config.randomSeed, "seed", defaultSeed, "Random seed")
	flag.Float64Var(&config.nullRate, "null-rate", 0.05, "Fraction of nullable cells left empty")
	flag.Parse()

	for _, f := range strings.Split(formats, ",") {
		if f = strings.TrimSpace(f); f != "" {
			config.formats = append(config.formats, core.Format(f))
		}
	}
	return config
}

func extension(format core.Format) string {
	if format == core.FormatText {
		return "csv"
	}
	return string(format)
}

func schemaNames() []string {
	names := make([]string, 0, schema.NumFields())
	for _, f := range schema.Fields() {
		names = append(names, f.Name)
	}
	return names
}

func generateTable(config Config, rnd *rand.Rand) arrow.Table {
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	first := strings.Split(firstNames, ",")
	last := strings.Split(lastNames, ",")
	doms := strings.Split(domains, ",")
	epoch := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	isNull := func() bool { return rnd.Float64() < config.nullRate }

	for i := 0; i < config.rowCount; i++ {
		fn, ln := first[rnd.Intn(len(first))], last[rnd.Intn(len(last))]
		b.Field(0).(*array.StringBuilder).Append(uuid.NewString())
		b.Field(1).(*array.StringBuilder).Append(fn)
		b.Field(2).(*array.StringBuilder).Append(ln)
		if isNull() {
			b.Field(3).AppendNull()
		} else {
			b.Field(3).(*array.StringBuilder).Append(strings.ToLower(fn+"."+ln) + "@" + doms[rnd.Intn(len(doms))])
		}
		if isNull() {
			b.Field(4).AppendNull()
		} else {
			b.Field(4).(*array.Int64Builder).Append(int64(18 + rnd.Intn(70)))
		}
		if isNull() {
			b.Field(5).AppendNull()
		} else {
			b.Field(5).(*array.Float64Builder).Append(float64(rnd.Intn(10000)) / 100)
		}
		b.Field(6).(*array.BooleanBuilder).Append(rnd.Intn(4) != 0)
		signup := epoch.Add(time.Duration(rnd.Int63n(int64(10 * 365 * 24 * time.Hour))))
		b.Field(7).(*array.TimestampBuilder).Append(arrow.Timestamp(signup.UnixMilli()))
	}

	rec := b.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{rec})
}
