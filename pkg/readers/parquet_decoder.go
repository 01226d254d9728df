package readers

import (
	"context"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// decodeParquet reads a whole Parquet file. Column names and types come from
// the file's embedded schema.
func decodeParquet(ctx context.Context, src source, config core.ReaderConfig, alloc memory.Allocator) (core.Table, error) {
	// Create parquet file reader - src is a ReaderAtSeeker
	parquetReader, err := file.NewParquetReader(src)
	if err != nil {
		return nil, core.Errorf(core.ErrParse, "failed to open Parquet file %s: %w", config.InputPath, err)
	}
	defer parquetReader.Close()

	arrowProps := pqarrow.ArrowReadProperties{
		BatchSize: int64(config.BatchSize()),
	}
	arrowReader, err := pqarrow.NewFileReader(parquetReader, arrowProps, alloc)
	if err != nil {
		return nil, core.Errorf(core.ErrParse, "failed to create Arrow reader for %s: %w", config.InputPath, err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, classify(err, string(core.FormatParquet), config.InputPath)
	}
	return table, nil
}
