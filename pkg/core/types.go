// Package core provides the core types and interfaces for loading tabular files into Arrow tables.
package core

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
)

// Table is the in-memory columnar result of a fetch. The caller owns it and
// must call Release when done.
type Table = arrow.Table

// Format identifies the on-disk encoding of a dataset.
type Format string

const (
	// FormatText is delimited text. Column names and types come from the configuration.
	FormatText Format = "text"
	// FormatParquet is a self-describing Parquet file.
	FormatParquet Format = "parquet"
	// FormatORC is a self-describing ORC file.
	FormatORC Format = "orc"
	// FormatArrow is an Arrow IPC file. Only the writer supports it.
	FormatArrow Format = "arrow"
	// FormatJSON is a JSON array of row objects. Only the writer supports it.
	FormatJSON Format = "json"
)

// SourceKind selects the storage backend a reader or writer talks to.
type SourceKind string

const (
	// SourceNFS is a locally mounted filesystem (local disk or network mount).
	SourceNFS SourceKind = "nfs"
	// SourceS3 is an S3-compatible object store.
	SourceS3 SourceKind = "s3"
)

// NoHeader is the header value meaning "the file has no header row".
const NoHeader = -1

// DefaultChunkSize is the number of rows decoded per batch when the
// configuration does not set one.
const DefaultChunkSize = 10000

// DatasetReader loads a whole dataset into memory.
type DatasetReader interface {
	// Fetch decodes the configured source into a new table.
	Fetch(ctx context.Context) (Table, error)

	// Config returns the configuration the reader was built with.
	Config() ReaderConfig
}

// DatasetWriter persists a table to a destination.
type DatasetWriter interface {
	// Write encodes the whole table to the configured destination.
	Write(ctx context.Context, table Table) error

	// Config returns the configuration the writer was built with.
	Config() WriterConfig
}

// ReaderConfig provides configuration for creating a reader.
type ReaderConfig struct {
	// InputPath is the location of the source file.
	InputPath string `mapstructure:"input_path" yaml:"input_path" json:"input_path"`

	// InputFormat is the encoding of the source file.
	InputFormat Format `mapstructure:"input_format" yaml:"input_format" json:"input_format"`

	// Schema names the columns of a text file in positional order.
	Schema []string `mapstructure:"schema" yaml:"schema,omitempty" json:"schema,omitempty"`

	// Delimiter is the single field separator of a text file.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter,omitempty" json:"delimiter,omitempty"`

	// Dtype holds one type name per Schema entry.
	Dtype []string `mapstructure:"dtype" yaml:"dtype,omitempty" json:"dtype,omitempty"`

	// Header is the number of leading rows of a text file to skip.
	// NoHeader skips nothing. Nil means the key was not given.
	Header *int `mapstructure:"header" yaml:"header,omitempty" json:"header,omitempty"`

	// RequiredCols lists the columns to keep. Empty keeps every column.
	RequiredCols []string `mapstructure:"required_cols" yaml:"required_cols,omitempty" json:"required_cols,omitempty"`

	// ChunkSize is the number of rows decoded per batch.
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size,omitempty" json:"chunk_size,omitempty"`

	// Endpoint is the object store host:port (s3 only).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// AccessKey is the object store access key (s3 only).
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty" json:"access_key,omitempty"`

	// SecretKey is the object store secret key (s3 only).
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty" json:"secret_key,omitempty"`

	// Region is the object store region (s3 only).
	Region string `mapstructure:"region" yaml:"region,omitempty" json:"region,omitempty"`

	// UseSSL enables TLS towards the object store (s3 only).
	UseSSL bool `mapstructure:"use_ssl" yaml:"use_ssl,omitempty" json:"use_ssl,omitempty"`
}

// WriterConfig provides configuration for creating a writer.
type WriterConfig struct {
	// OutputPath is the destination file.
	OutputPath string `mapstructure:"output_path" yaml:"output_path" json:"output_path"`

	// OutputFormat is the encoding to write.
	OutputFormat Format `mapstructure:"output_format" yaml:"output_format" json:"output_format"`

	// Delimiter is the text field separator. Defaults to ",".
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter,omitempty" json:"delimiter,omitempty"`

	// Header writes the column names as the first text row.
	Header bool `mapstructure:"header" yaml:"header,omitempty" json:"header,omitempty"`

	// Compression is the parquet codec: snappy (default), zstd, gzip or none.
	Compression string `mapstructure:"compression" yaml:"compression,omitempty" json:"compression,omitempty"`
}

// HeaderRows returns how many leading rows a text decoder must skip.
func (c ReaderConfig) HeaderRows() int {
	if c.Header == nil || *c.Header == NoHeader {
		return 0
	}
	return *c.Header
}

// BatchSize returns the configured chunk size or DefaultChunkSize.
func (c ReaderConfig) BatchSize() int {
	if c.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return c.ChunkSize
}

// Clone returns a deep copy so callers cannot mutate a reader's configuration.
func (c ReaderConfig) Clone() ReaderConfig {
	out := c
	out.Schema = append([]string(nil), c.Schema...)
	out.Dtype = append([]string(nil), c.Dtype...)
	out.RequiredCols = append([]string(nil), c.RequiredCols...)
	if c.Header != nil {
		h := *c.Header
		out.Header = &h
	}
	return out
}

// IntPtr is a convenience for building a ReaderConfig.Header literal.
func IntPtr(v int) *int {
	return &v
}
