package core

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

var dtypes = map[string]arrow.DataType{
	"str":            arrow.BinaryTypes.String,
	"string":         arrow.BinaryTypes.String,
	"object":         arrow.BinaryTypes.String,
	"int":            arrow.PrimitiveTypes.Int64,
	"int64":          arrow.PrimitiveTypes.Int64,
	"int32":          arrow.PrimitiveTypes.Int32,
	"int16":          arrow.PrimitiveTypes.Int16,
	"int8":           arrow.PrimitiveTypes.Int8,
	"uint64":         arrow.PrimitiveTypes.Uint64,
	"uint32":         arrow.PrimitiveTypes.Uint32,
	"uint16":         arrow.PrimitiveTypes.Uint16,
	"uint8":          arrow.PrimitiveTypes.Uint8,
	"float":          arrow.PrimitiveTypes.Float64,
	"float64":        arrow.PrimitiveTypes.Float64,
	"double":         arrow.PrimitiveTypes.Float64,
	"float32":        arrow.PrimitiveTypes.Float32,
	"bool":           arrow.FixedWidthTypes.Boolean,
	"boolean":        arrow.FixedWidthTypes.Boolean,
	"date":           arrow.FixedWidthTypes.Date32,
	"date32":         arrow.FixedWidthTypes.Date32,
	"datetime":       arrow.FixedWidthTypes.Timestamp_ms,
	"timestamp":      arrow.FixedWidthTypes.Timestamp_ms,
	"datetime64[ms]": arrow.FixedWidthTypes.Timestamp_ms,
	"datetime64[ns]": arrow.FixedWidthTypes.Timestamp_ns,
}

// ParseDtype maps a dtype name from a text configuration to its Arrow type.
func ParseDtype(name string) (arrow.DataType, error) {
	dt, ok := dtypes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, Errorf(ErrConfiguration, "unknown dtype %q", name)
	}
	return dt, nil
}

// TextSchema builds the Arrow schema of a text source from Schema and Dtype.
func (c ReaderConfig) TextSchema() (*arrow.Schema, error) {
	if len(c.Schema) != len(c.Dtype) {
		return nil, Errorf(ErrConfiguration, "dtype has %d entries but schema has %d", len(c.Dtype), len(c.Schema))
	}
	fields := make([]arrow.Field, len(c.Schema))
	for i, name := range c.Schema {
		dt, err := ParseDtype(c.Dtype[i])
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}
