package writers

import (
	"testing"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryRegister(t *testing.T) {
	f := NewFactory()
	assert.Equal(t, []core.SourceKind{core.SourceNFS}, f.Kinds())

	called := false
	f.Register("scratch", func(config core.WriterConfig) (core.DatasetWriter, error) {
		called = true
		return NewNFSWriter(config)
	})
	assert.Equal(t, []core.SourceKind{core.SourceNFS, "scratch"}, f.Kinds())

	w, err := f.Create("scratch", core.WriterConfig{OutputPath: "/tmp/x", OutputFormat: core.FormatJSON})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, core.FormatJSON, w.Config().OutputFormat)

	// The package registry is untouched.
	_, err = GetIOWriter("scratch", core.WriterConfig{OutputPath: "/tmp/x", OutputFormat: core.FormatJSON})
	assert.ErrorIs(t, err, core.ErrUnsupportedSource)
	assert.Equal(t, []core.SourceKind{core.SourceNFS}, NewFactory().Kinds())

	_, err = f.Create("gcs", core.WriterConfig{OutputPath: "/tmp/x", OutputFormat: core.FormatJSON})
	assert.ErrorIs(t, err, core.ErrUnsupportedSource)

	// Creator validation errors pass through.
	_, err = f.Create(core.SourceNFS, core.WriterConfig{OutputFormat: core.FormatText})
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
