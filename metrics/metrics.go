package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
)

// -----------------------------
// Fetch Statistics
// -----------------------------

// ColumnStats describes one column of a fetched table.
type ColumnStats struct {
	Name      string `json:"name"`
	DataType  string `json:"data_type"`
	NullCount int64  `json:"null_count"`
}

// FetchStats summarises a single fetch.
type FetchStats struct {
	Source    string        `json:"source"`
	Format    string        `json:"format"`
	Path      string        `json:"path"`
	Rows      int64         `json:"rows"`
	Columns   int           `json:"columns"`
	Schema    []ColumnStats `json:"schema"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// FromTable builds the statistics of a completed fetch. The table is not
// retained.
func FromTable(source, format, path string, table arrow.Table, start time.Time) FetchStats {
	stats := FetchStats{
		Source:    source,
		Format:    format,
		Path:      path,
		Rows:      table.NumRows(),
		Columns:   int(table.NumCols()),
		StartTime: start,
		Duration:  time.Since(start),
	}

	for i := 0; i < int(table.NumCols()); i++ {
		col := table.Column(i)
		stats.Schema = append(stats.Schema, ColumnStats{
			Name:      col.Name(),
			DataType:  col.DataType().String(),
			NullCount: int64(col.NullN()),
		})
	}
	return stats
}

// String renders a one-line summary.
func (s FetchStats) String() string {
	return fmt.Sprintf("%s %s %s: %d rows x %d columns in %s", s.Source, s.Format, s.Path, s.Rows, s.Columns, s.Duration.Round(time.Millisecond))
}

// -----------------------------
// Stats Storage
// -----------------------------

// StatsStore abstracts fetch statistics storage.
type StatsStore interface {
	Save(stats FetchStats) error
	SaveWithContext(ctx context.Context, stats FetchStats) error
}

// JSONStatsStore stores statistics as indented JSON. With an empty FilePath
// it writes to Out, or stdout when Out is nil.
type JSONStatsStore struct {
	FilePath string
	Out      io.Writer
}

func (j *JSONStatsStore) Save(stats FetchStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	if j.FilePath != "" {
		return os.WriteFile(j.FilePath, data, 0644)
	}

	out := j.Out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func (j *JSONStatsStore) SaveWithContext(ctx context.Context, stats FetchStats) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return j.Save(stats)
	}
}
