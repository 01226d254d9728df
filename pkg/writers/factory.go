// Package writers persists Arrow tables as delimited text, Parquet, ORC,
// Arrow IPC or JSON, and constructs the writer for a source kind.
package writers

import (
	"sort"

	"github.com/TFMV/tableio/pkg/core"
)

// Creator is a function that creates a writer from a configuration.
type Creator func(config core.WriterConfig) (core.DatasetWriter, error)

// builtin is the fixed registry behind GetIOWriter. It is never mutated.
var builtin = map[core.SourceKind]Creator{
	core.SourceNFS: NewNFSWriter,
}

// GetIOWriter constructs the writer registered for kind.
func GetIOWriter(kind string, config core.WriterConfig) (core.DatasetWriter, error) {
	creator, ok := builtin[core.SourceKind(kind)]
	if !ok {
		return nil, core.Errorf(core.ErrUnsupportedSource, "unsupported writer source: %q", kind)
	}
	return creator(config)
}

// Factory creates writers by source kind.
type Factory struct {
	// registered writers by kind
	writers map[core.SourceKind]Creator
}

// NewFactory creates a new writer factory holding the built-in kinds.
func NewFactory() *Factory {
	writers := make(map[core.SourceKind]Creator, len(builtin))
	for kind, creator := range builtin {
		writers[kind] = creator
	}
	return &Factory{writers: writers}
}

// Register registers a creator for a source kind.
func (f *Factory) Register(kind core.SourceKind, creator Creator) {
	f.writers[kind] = creator
}

// Create creates the writer registered for kind.
func (f *Factory) Create(kind core.SourceKind, config core.WriterConfig) (core.DatasetWriter, error) {
	creator, ok := f.writers[kind]
	if !ok {
		return nil, core.Errorf(core.ErrUnsupportedSource, "unsupported writer source: %q", kind)
	}
	return creator(config)
}

// Kinds lists the registered source kinds in sorted order.
func (f *Factory) Kinds() []core.SourceKind {
	kinds := make([]core.SourceKind, 0, len(f.writers))
	for kind := range f.writers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
