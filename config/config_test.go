package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobYAML = `
source: nfs
reader:
  input_path: /mnt/nfs/person.csv
  input_format: text
  schema: [firstname, lastname, gender]
  dtype: [str, str, str]
  delimiter: ","
  header: 0
  required_cols: [lastname]
writer:
  output_path: /tmp/person.parquet
  output_format: parquet
  compression: zstd
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeFile(t, "job.yaml", jobYAML))
	require.NoError(t, err)

	assert.Equal(t, "nfs", cfg.Source)
	assert.Equal(t, "/mnt/nfs/person.csv", cfg.Reader.InputPath)
	assert.Equal(t, core.FormatText, cfg.Reader.InputFormat)
	assert.Equal(t, []string{"firstname", "lastname", "gender"}, cfg.Reader.Schema)
	assert.Equal(t, []string{"str", "str", "str"}, cfg.Reader.Dtype)
	assert.Equal(t, ",", cfg.Reader.Delimiter)
	require.NotNil(t, cfg.Reader.Header)
	assert.Equal(t, 0, *cfg.Reader.Header)
	assert.Equal(t, []string{"lastname"}, cfg.Reader.RequiredCols)

	require.NotNil(t, cfg.Writer)
	assert.Equal(t, core.FormatParquet, cfg.Writer.OutputFormat)
	assert.Equal(t, "zstd", cfg.Writer.Compression)

	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaultsSource(t *testing.T) {
	cfg, err := Load(writeFile(t, "job.yaml", `
reader:
  input_path: /mnt/nfs/person.orc
  input_format: orc
`))
	require.NoError(t, err)
	assert.Equal(t, "nfs", cfg.Source)
	assert.Nil(t, cfg.Reader.Header)
	assert.Nil(t, cfg.Writer)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TABLEIO_READER_INPUT_PATH", "/mnt/other/person.csv")
	t.Setenv("TABLEIO_SOURCE", "s3")

	cfg, err := Load(writeFile(t, "job.yaml", jobYAML))
	require.NoError(t, err)
	assert.Equal(t, "/mnt/other/person.csv", cfg.Reader.InputPath)
	assert.Equal(t, "s3", cfg.Source)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = Load(writeFile(t, "broken.yaml", "reader: [unterminated"))
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(map[string]any{
		"input_path":   "/mnt/nfs/person.psv",
		"input_format": "text",
		"schema":       []any{"firstname", "lastname", "gender"},
		"dtype":        []any{"str", "str", "str"},
		"delimiter":    "|",
		"header":       "1",
		"chunk_size":   500,
		"unrecognized": true,
	})
	require.NoError(t, err)

	assert.Equal(t, core.FormatText, cfg.InputFormat)
	assert.Equal(t, []string{"firstname", "lastname", "gender"}, cfg.Schema)
	assert.Equal(t, "|", cfg.Delimiter)
	require.NotNil(t, cfg.Header)
	assert.Equal(t, 1, *cfg.Header)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.NoError(t, cfg.Validate())
}

func TestFromMapMissingHeader(t *testing.T) {
	cfg, err := FromMap(map[string]any{
		"input_path":   "/mnt/nfs/person.csv",
		"input_format": "text",
		"schema":       []any{"firstname"},
		"dtype":        []any{"str"},
		"delimiter":    ",",
	})
	require.NoError(t, err)
	assert.Nil(t, cfg.Header)
	assert.ErrorIs(t, cfg.Validate(), core.ErrConfiguration)
}

func TestWriterFromMap(t *testing.T) {
	cfg, err := WriterFromMap(map[string]any{
		"output_path":   "/tmp/out.csv",
		"output_format": "text",
		"header":        true,
	})
	require.NoError(t, err)
	assert.Equal(t, core.FormatText, cfg.OutputFormat)
	assert.True(t, cfg.Header)
	assert.NoError(t, cfg.Validate())
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{Reader: core.ReaderConfig{InputPath: "/x.parquet", InputFormat: core.FormatParquet}}
	assert.ErrorIs(t, cfg.Validate(), core.ErrConfiguration, "source is required")

	cfg.Source = "nfs"
	assert.NoError(t, cfg.Validate())

	cfg.Writer = &core.WriterConfig{OutputPath: "/tmp/out", OutputFormat: "xlsx"}
	assert.ErrorIs(t, cfg.Validate(), core.ErrConfiguration)
}
