package readers

import (
	"context"
	"time"

	"github.com/TFMV/tableio/logger"
	"github.com/TFMV/tableio/pkg/core"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"
)

// NFSReader loads a file from a locally mounted filesystem, either local
// disk or a network mount.
type NFSReader struct {
	config core.ReaderConfig
	alloc  memory.Allocator
}

// NewNFSReader validates config and creates a reader. No file is touched
// until Fetch.
func NewNFSReader(config core.ReaderConfig) (core.DatasetReader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &NFSReader{
		config: config.Clone(),
		alloc:  memory.NewGoAllocator(),
	}, nil
}

// Fetch opens the configured path, decodes it and projects it to the
// required columns. The file is closed before Fetch returns.
func (r *NFSReader) Fetch(ctx context.Context) (core.Table, error) {
	// Check if context is canceled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	log := logger.GetLogger().With(
		zap.String("source", string(core.SourceNFS)),
		zap.String("path", r.config.InputPath),
		zap.String("format", string(r.config.InputFormat)),
	)
	log.Debug("fetching dataset")
	start := time.Now()

	f, err := openFile(r.config.InputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := decode(ctx, f, r.config, r.alloc)
	if err != nil {
		return nil, err
	}

	table, err = project(table, r.config.RequiredCols)
	if err != nil {
		return nil, err
	}

	log.Info("fetched dataset",
		zap.Int64("rows", table.NumRows()),
		zap.Int64("columns", table.NumCols()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return table, nil
}

// Config returns a copy of the reader's configuration.
func (r *NFSReader) Config() core.ReaderConfig {
	return r.config.Clone()
}
