package readers

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/scritchley/orc"
)

// decodeORC reads a whole ORC file. Column names and types come from the
// file's embedded struct schema.
func decodeORC(ctx context.Context, src source, config core.ReaderConfig, alloc memory.Allocator) (core.Table, error) {
	orcReader, err := orc.NewReader(src)
	if err != nil {
		return nil, core.Errorf(core.ErrParse, "failed to open ORC file %s: %w", config.InputPath, err)
	}

	orcSchema := orcReader.Schema()
	columns := orcSchema.Columns()
	schema := orcArrowSchema(columns, orcSchema.String())

	builder := array.NewRecordBuilder(alloc, schema)
	defer builder.Release()

	records := make([]arrow.Record, 0, 1)
	release := func() {
		for _, rec := range records {
			rec.Release()
		}
	}

	batchSize := config.BatchSize()
	pending := 0
	cursor := orcReader.Select(columns...)
	defer cursor.Close()
	for cursor.Stripes() {
		for cursor.Next() {
			row := cursor.Row()
			for i := range columns {
				var v interface{}
				if i < len(row) {
					v = row[i]
				}
				if err := appendORCValue(builder.Field(i), v); err != nil {
					release()
					return nil, core.Errorf(core.ErrParse, "ORC file %s column %q: %w", config.InputPath, columns[i], err)
				}
			}
			pending++
			if pending == batchSize {
				select {
				case <-ctx.Done():
					release()
					return nil, ctx.Err()
				default:
				}
				records = append(records, builder.NewRecord())
				pending = 0
			}
		}
	}
	if err := cursor.Err(); err != nil {
		release()
		return nil, classify(err, string(core.FormatORC), config.InputPath)
	}
	if pending > 0 || len(records) == 0 {
		records = append(records, builder.NewRecord())
	}

	table := array.NewTableFromRecords(schema, records)
	release()
	return table, nil
}

// orcArrowSchema maps the top-level ORC struct to an Arrow schema. Types the
// mapping does not know (decimal, list, map, struct, union) become utf8 and
// are rendered with fmt.
func orcArrowSchema(columns []string, typeString string) *arrow.Schema {
	types := splitORCStruct(typeString)
	fields := make([]arrow.Field, len(columns))
	for i, name := range columns {
		dt := arrow.DataType(arrow.BinaryTypes.String)
		if i < len(types) {
			dt = orcArrowType(types[i])
		}
		fields[i] = arrow.Field{Name: name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// splitORCStruct returns the member types of "struct<a:int,b:map<string,int>>".
func splitORCStruct(s string) []string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "struct<") || !strings.HasSuffix(s, ">") {
		return nil
	}
	body := s[len("struct<") : len(s)-1]

	var members []string
	depth, start := 0, 0
	for i, c := range body {
		switch c {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				members = append(members, body[start:i])
				start = i + 1
			}
		}
	}
	if start < len(body) {
		members = append(members, body[start:])
	}

	types := make([]string, len(members))
	for i, m := range members {
		if idx := strings.Index(m, ":"); idx >= 0 {
			types[i] = strings.TrimSpace(m[idx+1:])
		}
	}
	return types
}

func orcArrowType(orcType string) arrow.DataType {
	base := orcType
	if idx := strings.IndexAny(base, "(<"); idx >= 0 {
		base = base[:idx]
	}
	switch strings.ToLower(base) {
	case "boolean":
		return arrow.FixedWidthTypes.Boolean
	case "tinyint":
		return arrow.PrimitiveTypes.Int8
	case "smallint":
		return arrow.PrimitiveTypes.Int16
	case "int":
		return arrow.PrimitiveTypes.Int32
	case "bigint":
		return arrow.PrimitiveTypes.Int64
	case "float":
		return arrow.PrimitiveTypes.Float32
	case "double":
		return arrow.PrimitiveTypes.Float64
	case "binary":
		return arrow.BinaryTypes.Binary
	case "date":
		return arrow.FixedWidthTypes.Date32
	case "timestamp":
		return arrow.FixedWidthTypes.Timestamp_ns
	default:
		return arrow.BinaryTypes.String
	}
}

var timeType = reflect.TypeOf(time.Time{})

func appendORCValue(b array.Builder, v interface{}) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch b := b.(type) {
	case *array.BooleanBuilder:
		bv, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		b.Append(bv)
	case *array.Int8Builder:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		b.Append(int8(n))
	case *array.Int16Builder:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		b.Append(int16(n))
	case *array.Int32Builder:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		b.Append(int32(n))
	case *array.Int64Builder:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		b.Append(n)
	case *array.Float32Builder:
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		b.Append(float32(f))
	case *array.Float64Builder:
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		b.Append(f)
	case *array.BinaryBuilder:
		switch bv := v.(type) {
		case []byte:
			b.Append(bv)
		case string:
			b.AppendString(bv)
		default:
			return fmt.Errorf("expected binary, got %T", v)
		}
	case *array.Date32Builder:
		t, err := toTime(v)
		if err != nil {
			return err
		}
		b.Append(arrow.Date32FromTime(t))
	case *array.TimestampBuilder:
		t, err := toTime(v)
		if err != nil {
			return err
		}
		b.Append(arrow.Timestamp(t.UnixNano()))
	case *array.StringBuilder:
		switch sv := v.(type) {
		case string:
			b.Append(sv)
		case []byte:
			b.Append(string(sv))
		default:
			b.Append(fmt.Sprint(v))
		}
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toFloat64(v interface{}) (float64, error) {
	switch f := v.(type) {
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	default:
		n, err := toInt64(v)
		if err != nil {
			return 0, fmt.Errorf("expected float, got %T", v)
		}
		return float64(n), nil
	}
}

// toTime accepts time.Time, types embedding it and named types derived from it.
func toTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case interface{ UTC() time.Time }:
		return t.UTC(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().ConvertibleTo(timeType) {
		return rv.Convert(timeType).Interface().(time.Time), nil
	}
	return time.Time{}, fmt.Errorf("expected time, got %T", v)
}
