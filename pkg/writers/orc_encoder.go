package writers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/TFMV/tableio/utils"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/scritchley/orc"
)

// orcTypeName maps an Arrow type to the ORC type of the same width. Dates
// are not written; cast them to timestamps first.
func orcTypeName(dt arrow.DataType) (string, bool) {
	switch dt.ID() {
	case arrow.BOOL:
		return "boolean", true
	case arrow.INT8:
		return "tinyint", true
	case arrow.INT16:
		return "smallint", true
	case arrow.INT32:
		return "int", true
	case arrow.INT64:
		return "bigint", true
	case arrow.FLOAT32:
		return "float", true
	case arrow.FLOAT64:
		return "double", true
	case arrow.STRING, arrow.LARGE_STRING:
		return "string", true
	case arrow.BINARY:
		return "binary", true
	case arrow.TIMESTAMP:
		return "timestamp", true
	default:
		return "", false
	}
}

// orcSchema renders the Arrow schema as an ORC struct type string.
func orcSchema(schema *arrow.Schema) (string, error) {
	members := make([]string, len(schema.Fields()))
	for i, field := range schema.Fields() {
		name, ok := orcTypeName(field.Type)
		if !ok {
			return "", unsupported(core.FormatORC, field)
		}
		members[i] = fmt.Sprintf("%s:%s", field.Name, name)
	}
	return "struct<" + strings.Join(members, ",") + ">", nil
}

// orcValue converts a cell to the Go type the ORC column writer expects.
func orcValue(v interface{}) interface{} {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	default:
		return v
	}
}

// encodeORC writes an ORC file with one top-level struct column per field.
func encodeORC(ctx context.Context, w io.Writer, table core.Table, _ core.WriterConfig, _ memory.Allocator) error {
	typeString, err := orcSchema(table.Schema())
	if err != nil {
		return err
	}
	schema, err := orc.ParseSchema(typeString)
	if err != nil {
		return core.Errorf(core.ErrUnsupportedType, "invalid ORC schema %s: %w", typeString, err)
	}

	writer, err := orc.NewWriter(w, orc.SetSchema(schema))
	if err != nil {
		return core.Errorf(core.ErrIO, "failed to create ORC writer: %w", err)
	}

	err = utils.ForEachRecord(table, func(rec arrow.Record) error {
		if err := checkContext(ctx); err != nil {
			return err
		}
		values := make([]interface{}, rec.NumCols())
		for i := 0; i < int(rec.NumRows()); i++ {
			for j := range values {
				values[j] = orcValue(utils.ValueAt(rec.Column(j), i))
			}
			if err := writer.Write(values...); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		writer.Close()
		return core.Errorf(core.ErrIO, "failed to write ORC rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return core.Errorf(core.ErrIO, "failed to close ORC writer: %w", err)
	}
	return nil
}
