package readers

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// source is a fully addressable input. Both *os.File (through fileSource)
// and *bytes.Reader satisfy it.
type source interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	Size() int64
}

// fileSource adds Size to an open file.
type fileSource struct {
	*os.File
	size int64
}

func (f *fileSource) Size() int64 {
	return f.size
}

// openFile opens path for decoding. The caller closes the returned file.
func openFile(path string) (*fileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.Errorf(core.ErrIO, "failed to open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, core.Errorf(core.ErrIO, "failed to stat %s: %w", path, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, core.Errorf(core.ErrIO, "%s is a directory", path)
	}
	return &fileSource{File: f, size: st.Size()}, nil
}

// decode dispatches on the configured format.
func decode(ctx context.Context, src source, config core.ReaderConfig, alloc memory.Allocator) (core.Table, error) {
	switch config.InputFormat {
	case core.FormatText:
		return decodeText(ctx, src, config, alloc)
	case core.FormatParquet:
		return decodeParquet(ctx, src, config, alloc)
	case core.FormatORC:
		return decodeORC(ctx, src, config, alloc)
	default:
		return nil, core.Errorf(core.ErrConfiguration, "unsupported input_format %q", config.InputFormat)
	}
}

// classify tags a decoder failure. Filesystem errors stay I/O errors,
// cancellation is returned as is, everything else is a parse error.
func classify(err error, format string, path string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, core.ErrIO) || errors.Is(err, core.ErrParse) || errors.Is(err, core.ErrConfiguration) {
		return err
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return core.Errorf(core.ErrIO, "failed to read %s: %w", path, err)
	}
	return core.Errorf(core.ErrParse, "failed to decode %s file %s: %w", format, path, err)
}
