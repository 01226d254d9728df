// Package utils holds Arrow helpers shared by the writers, the API and the CLI.
package utils

import (
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/olekukonko/tablewriter"
)

// ValueAt returns the Go value of arr at row i, or nil when it is null.
// Types without a natural Go mapping are rendered with ValueStr.
func ValueAt(arr arrow.Array, i int) interface{} {
	if arr.IsNull(i) {
		return nil
	}
	switch col := arr.(type) {
	case *array.Int8:
		return col.Value(i)
	case *array.Int16:
		return col.Value(i)
	case *array.Int32:
		return col.Value(i)
	case *array.Int64:
		return col.Value(i)
	case *array.Uint8:
		return col.Value(i)
	case *array.Uint16:
		return col.Value(i)
	case *array.Uint32:
		return col.Value(i)
	case *array.Uint64:
		return col.Value(i)
	case *array.Float32:
		return col.Value(i)
	case *array.Float64:
		return col.Value(i)
	case *array.Boolean:
		return col.Value(i)
	case *array.String:
		return col.Value(i)
	case *array.LargeString:
		return col.Value(i)
	case *array.Binary:
		return col.Value(i)
	case *array.Date32:
		return col.Value(i).ToTime().UTC()
	case *array.Date64:
		return col.Value(i).ToTime().UTC()
	case *array.Timestamp:
		unit := col.DataType().(*arrow.TimestampType).Unit
		return col.Value(i).ToTime(unit).UTC()
	default:
		return arr.ValueStr(i)
	}
}

// ForEachRecord calls fn with every record of table, in row order. The
// record is only valid during the call.
func ForEachRecord(table arrow.Table, fn func(rec arrow.Record) error) error {
	chunk := table.NumRows()
	if chunk <= 0 {
		return nil
	}
	tr := array.NewTableReader(table, chunk)
	defer tr.Release()

	for tr.Next() {
		if err := fn(tr.Record()); err != nil {
			return err
		}
	}
	return tr.Err()
}

// RowMaps materializes table as one map per row, keyed by column name.
func RowMaps(table arrow.Table) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, table.NumRows())
	err := ForEachRecord(table, func(rec arrow.Record) error {
		for i := 0; i < int(rec.NumRows()); i++ {
			row := make(map[string]interface{}, rec.NumCols())
			for j := 0; j < int(rec.NumCols()); j++ {
				row[rec.ColumnName(j)] = ValueAt(rec.Column(j), i)
			}
			rows = append(rows, row)
		}
		return nil
	})
	return rows, err
}

// StringRows materializes table as rows of display strings. Nulls become "".
func StringRows(table arrow.Table) ([][]string, error) {
	rows := make([][]string, 0, table.NumRows())
	err := ForEachRecord(table, func(rec arrow.Record) error {
		for i := 0; i < int(rec.NumRows()); i++ {
			row := make([]string, rec.NumCols())
			for j := 0; j < int(rec.NumCols()); j++ {
				row[j] = FormatValue(ValueAt(rec.Column(j), i))
			}
			rows = append(rows, row)
		}
		return nil
	})
	return rows, err
}

// ColumnNames returns the field names of table in order.
func ColumnNames(table arrow.Table) []string {
	fields := table.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// FormatValue renders a value returned by ValueAt for display.
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// Preview writes the first limit rows of table as an aligned text table.
// A limit of zero or less writes every row. Only the previewed rows are
// rendered.
func Preview(w io.Writer, table arrow.Table, limit int) error {
	total := table.NumRows()
	shown := table
	if limit > 0 && int64(limit) < total {
		shown = array.NewTableSlice(table, 0, int64(limit))
		defer shown.Release()
	}

	rows, err := StringRows(shown)
	if err != nil {
		return err
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(ColumnNames(table))
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetBorder(false)
	tw.SetHeaderLine(false)
	tw.SetColumnSeparator("")
	tw.SetCenterSeparator("")
	tw.SetRowSeparator("")
	tw.SetTablePadding("  ")
	tw.SetNoWhiteSpace(true)
	tw.AppendBulk(rows)
	tw.Render()

	if rest := total - shown.NumRows(); rest > 0 {
		_, err = fmt.Fprintf(w, "... %d more rows\n", rest)
	}
	return err
}
