package readers

import (
	"strings"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// project keeps the columns named in required, in the order they appear in
// table. The input table is released; the caller owns the result. An empty
// required list returns table unchanged.
func project(table core.Table, required []string) (core.Table, error) {
	if len(required) == 0 {
		return table, nil
	}

	schema := table.Schema()
	want := make(map[string]struct{}, len(required))
	for _, name := range required {
		want[name] = struct{}{}
	}

	var missing []string
	for _, name := range required {
		if len(schema.FieldIndices(name)) == 0 && !contains(missing, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		table.Release()
		return nil, core.Errorf(core.ErrMissingColumn, "required columns not found: %s", strings.Join(missing, ", "))
	}

	fields := make([]arrow.Field, 0, len(want))
	columns := make([]arrow.Column, 0, len(want))
	for i, field := range schema.Fields() {
		if _, ok := want[field.Name]; !ok {
			continue
		}
		fields = append(fields, field)
		columns = append(columns, *table.Column(i))
	}

	md := schema.Metadata()
	projected := array.NewTable(arrow.NewSchema(fields, &md), columns, table.NumRows())
	table.Release()
	return projected, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
