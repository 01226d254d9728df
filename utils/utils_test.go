package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a test Arrow table split over two records
func createTestTable() arrow.Table {
	pool := memory.NewGoAllocator()

	// Define schema
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "born", Type: arrow.FixedWidthTypes.Date32, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()

	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"Alice", "Bob"}, nil)
	b.Field(2).(*array.Date32Builder).AppendValues([]arrow.Date32{
		arrow.Date32FromTime(time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)),
		arrow.Date32FromTime(time.Date(1991, 3, 4, 0, 0, 0, 0, time.UTC)),
	}, nil)
	first := b.NewRecord()
	defer first.Release()

	b.Field(0).(*array.Int64Builder).Append(3)
	b.Field(1).(*array.StringBuilder).AppendNull()
	b.Field(2).(*array.Date32Builder).AppendNull()
	second := b.NewRecord()
	defer second.Release()

	return array.NewTableFromRecords(schema, []arrow.Record{first, second})
}

func TestValueAt(t *testing.T) {
	table := createTestTable()
	defer table.Release()

	rows, err := RowMaps(table)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, "Alice", rows[0]["name"])
	assert.Equal(t, time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), rows[0]["born"])
	assert.Equal(t, int64(3), rows[2]["id"])
	assert.Nil(t, rows[2]["name"])
	assert.Nil(t, rows[2]["born"])
}

func TestStringRows(t *testing.T) {
	table := createTestTable()
	defer table.Release()

	rows, err := StringRows(table)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"1", "Alice", "1990-01-02"},
		{"2", "Bob", "1991-03-04"},
		{"3", "", ""},
	}, rows)
	assert.Equal(t, []string{"id", "name", "born"}, ColumnNames(table))
}

func TestPreview(t *testing.T) {
	table := createTestTable()
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, table, 2))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"id", "name", "born"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "Alice", "1990-01-02"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "Bob", "1991-03-04"}, strings.Fields(lines[2]))
	assert.Equal(t, "... 1 more rows", lines[3])
}

func TestPreviewLimits(t *testing.T) {
	table := createTestTable()
	defer table.Release()

	cases := map[string]struct {
		limit int
		rows  int
		more  string
	}{
		"first row":     {1, 1, "... 2 more rows"},
		"exact":         {3, 3, ""},
		"beyond":        {10, 3, ""},
		"zero is all":   {0, 3, ""},
		"negative, all": {-1, 3, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Preview(&buf, table, tc.limit))

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			if tc.more == "" {
				assert.Len(t, lines, 1+tc.rows)
				assert.NotContains(t, buf.String(), "more rows")
			} else {
				require.Len(t, lines, 2+tc.rows)
				assert.Equal(t, tc.more, lines[len(lines)-1])
			}
		})
	}

	// The source table is not consumed by a sliced preview.
	assert.Equal(t, int64(3), table.NumRows())
}

func TestForEachRecordEmptyTable(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int64}}, nil)
	table := array.NewTableFromRecords(schema, nil)
	defer table.Release()

	calls := 0
	err := ForEachRecord(table, func(arrow.Record) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)
}
