package writers

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/TFMV/tableio/logger"
	"github.com/TFMV/tableio/pkg/core"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"
)

// encoder writes a whole table to w.
type encoder func(ctx context.Context, w io.Writer, table core.Table, config core.WriterConfig, alloc memory.Allocator) error

var encoders = map[core.Format]encoder{
	core.FormatText:    encodeText,
	core.FormatParquet: encodeParquet,
	core.FormatORC:     encodeORC,
	core.FormatArrow:   encodeArrow,
	core.FormatJSON:    encodeJSON,
}

// NFSWriter writes a table to a locally mounted filesystem path.
type NFSWriter struct {
	config core.WriterConfig
	alloc  memory.Allocator
}

// NewNFSWriter validates config and creates a writer. No file is created
// until Write.
func NewNFSWriter(config core.WriterConfig) (core.DatasetWriter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &NFSWriter{
		config: config,
		alloc:  memory.NewGoAllocator(),
	}, nil
}

// Write encodes table to the configured path. On failure the partial file
// is removed.
func (w *NFSWriter) Write(ctx context.Context, table core.Table) (err error) {
	// Check if context is canceled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	enc, ok := encoders[w.config.OutputFormat]
	if !ok {
		return core.Errorf(core.ErrConfiguration, "unsupported output_format %q", w.config.OutputFormat)
	}

	start := time.Now()
	file, err := os.Create(w.config.OutputPath)
	if err != nil {
		return core.Errorf(core.ErrIO, "failed to create %s: %w", w.config.OutputPath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = core.Errorf(core.ErrIO, "failed to close %s: %w", w.config.OutputPath, closeErr)
		}
		if err != nil {
			os.Remove(w.config.OutputPath)
		}
	}()

	// Encoders must not close the file, so they only see a buffered writer.
	buf := bufio.NewWriter(file)
	if err := enc(ctx, buf, table, w.config, w.alloc); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return core.Errorf(core.ErrIO, "failed to flush %s: %w", w.config.OutputPath, err)
	}

	logger.GetLogger().Info("wrote dataset",
		zap.String("path", w.config.OutputPath),
		zap.String("format", string(w.config.OutputFormat)),
		zap.Int64("rows", table.NumRows()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Config returns the writer's configuration.
func (w *NFSWriter) Config() core.WriterConfig {
	return w.config
}
