package readers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// decodeText parses delimited text using the column names and types from the
// configuration. The first HeaderRows lines are skipped and empty cells
// decode as nulls.
func decodeText(ctx context.Context, r io.Reader, config core.ReaderConfig, alloc memory.Allocator) (core.Table, error) {
	schema, err := config.TextSchema()
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	if err := skipRows(br, config.HeaderRows()); err != nil {
		return nil, core.Errorf(core.ErrIO, "failed to skip header rows of %s: %w", config.InputPath, err)
	}

	comma, _ := utf8.DecodeRuneInString(config.Delimiter)
	reader := csv.NewReader(
		br,
		schema,
		csv.WithComma(comma),
		csv.WithHeader(false),
		csv.WithNullReader(true, ""),
		csv.WithChunk(config.BatchSize()),
		csv.WithAllocator(alloc),
	)
	defer reader.Release()

	records := make([]arrow.Record, 0, 1)
	release := func() {
		for _, rec := range records {
			rec.Release()
		}
	}

	for reader.Next() {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		default:
		}

		rec := reader.Record()
		rec.Retain()
		records = append(records, rec)
	}

	if err := reader.Err(); err != nil {
		release()
		return nil, classify(err, string(core.FormatText), config.InputPath)
	}

	table := array.NewTableFromRecords(schema, records)
	release()
	return table, nil
}

// skipRows discards n newline-terminated lines. Running out of input is not
// an error: the table is simply empty.
func skipRows(br *bufio.Reader, n int) error {
	for i := 0; i < n; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}
