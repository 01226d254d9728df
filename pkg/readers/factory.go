// Package readers loads delimited text, Parquet and ORC files into Arrow
// tables, and constructs the reader for a source kind.
package readers

import (
	"sort"

	"github.com/TFMV/tableio/pkg/core"
)

// Creator is a function that creates a reader from a configuration.
type Creator func(config core.ReaderConfig) (core.DatasetReader, error)

// builtin is the fixed registry behind GetIOReader. It is never mutated.
var builtin = map[core.SourceKind]Creator{
	core.SourceNFS: NewNFSReader,
	core.SourceS3:  NewS3Reader,
}

// GetIOReader constructs the reader registered for kind. An unknown kind
// fails with core.ErrUnsupportedSource before the configuration is looked at.
func GetIOReader(kind string, config core.ReaderConfig) (core.DatasetReader, error) {
	creator, ok := builtin[core.SourceKind(kind)]
	if !ok {
		return nil, core.Errorf(core.ErrUnsupportedSource, "unsupported reader source: %q", kind)
	}
	return creator(config)
}

// Factory creates readers by source kind. It starts with the built-in kinds
// and may be extended with Register. A Factory is not safe for concurrent
// Register calls.
type Factory struct {
	// registered readers by kind
	readers map[core.SourceKind]Creator
}

// NewFactory creates a new reader factory holding the built-in kinds.
func NewFactory() *Factory {
	readers := make(map[core.SourceKind]Creator, len(builtin))
	for kind, creator := range builtin {
		readers[kind] = creator
	}
	return &Factory{readers: readers}
}

// Register registers a creator for a source kind, replacing any existing one.
func (f *Factory) Register(kind core.SourceKind, creator Creator) {
	f.readers[kind] = creator
}

// Create creates the reader registered for kind.
func (f *Factory) Create(kind core.SourceKind, config core.ReaderConfig) (core.DatasetReader, error) {
	creator, ok := f.readers[kind]
	if !ok {
		return nil, core.Errorf(core.ErrUnsupportedSource, "unsupported reader source: %q", kind)
	}
	return creator(config)
}

// Kinds lists the registered source kinds in sorted order.
func (f *Factory) Kinds() []core.SourceKind {
	kinds := make([]core.SourceKind, 0, len(f.readers))
	for kind := range f.readers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
