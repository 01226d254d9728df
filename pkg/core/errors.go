package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports a missing or invalid configuration key. It is
	// returned at construction time, before any I/O.
	ErrConfiguration = errors.New("configuration error")

	// ErrIO reports that the source could not be opened or read.
	ErrIO = errors.New("io error")

	// ErrParse reports contents that do not conform to the declared format.
	ErrParse = errors.New("parse error")

	// ErrMissingColumn reports a required column absent from the decoded table.
	ErrMissingColumn = errors.New("missing column")

	// ErrUnsupportedSource reports a source kind with no registered reader or writer.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrUnsupportedType reports an Arrow type an encoder cannot write.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Errorf wraps kind with a formatted message. A %w verb in format keeps the
// underlying cause reachable through errors.Is and errors.As.
func Errorf(kind error, format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, a...)...)
}
