package readers

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://datasets/people/person.parquet")
	require.NoError(t, err)
	assert.Equal(t, "datasets", bucket)
	assert.Equal(t, "people/person.parquet", key)

	for _, uri := range []string{
		"/mnt/nfs/person.parquet",
		"http://datasets/person.parquet",
		"s3://datasets",
		"s3:///person.parquet",
		"s3://%zz/key",
	} {
		_, _, err := ParseS3URI(uri)
		assert.ErrorIs(t, err, core.ErrConfiguration, uri)
	}
}

func s3Config(format core.Format) core.ReaderConfig {
	return core.ReaderConfig{
		InputPath:   "s3://datasets/person." + string(format),
		InputFormat: format,
		Endpoint:    "127.0.0.1:9000",
		AccessKey:   "minioadmin",
		SecretKey:   "minioadmin",
		Region:      "us-east-1",
	}
}

func TestNewS3ReaderConfigurationErrors(t *testing.T) {
	config := s3Config(core.FormatParquet)
	config.Endpoint = ""
	_, err := NewS3Reader(config)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	config = s3Config(core.FormatParquet)
	config.InputPath = "/local/person.parquet"
	_, err = GetIOReader("s3", config)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	config = s3Config(core.FormatText)
	_, err = GetIOReader("s3", config)
	assert.ErrorIs(t, err, core.ErrConfiguration, "text input still needs schema, dtype, delimiter and header")
}

func TestS3ReaderFetch(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []core.Format{core.FormatParquet, core.FormatORC} {
		t.Run(string(format), func(t *testing.T) {
			data, err := os.ReadFile(writePersonFile(t, dir, format))
			require.NoError(t, err)

			config := s3Config(format)
			config.RequiredCols = []string{"lastname"}
			reader, err := GetIOReader("s3", config)
			require.NoError(t, err)

			s3r := reader.(*S3Reader)
			s3r.download = func(_ context.Context, bucket, key string) ([]byte, error) {
				assert.Equal(t, "datasets", bucket)
				assert.Equal(t, "person."+string(format), key)
				return data, nil
			}

			table, err := reader.Fetch(context.Background())
			require.NoError(t, err)
			defer table.Release()
			requireTable(t, table, []string{"lastname"}, [][]string{{"Olivia"}, {"Isabella"}, {"Charlotte"}})
		})
	}
}

func TestS3ReaderFetchText(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "person.csv"))
	require.NoError(t, err)

	config := s3Config(core.FormatText)
	config.Schema = personColumns
	config.Dtype = []string{"str", "str", "str"}
	config.Delimiter = ","
	config.Header = core.IntPtr(0)

	reader, err := NewS3Reader(config)
	require.NoError(t, err)
	reader.(*S3Reader).download = func(context.Context, string, string) ([]byte, error) {
		return data, nil
	}

	table, err := reader.Fetch(context.Background())
	require.NoError(t, err)
	defer table.Release()
	requireTable(t, table, personColumns, personRows)
}

func TestS3ReaderDownloadError(t *testing.T) {
	reader, err := NewS3Reader(s3Config(core.FormatParquet))
	require.NoError(t, err)

	boom := errors.New("connection refused")
	reader.(*S3Reader).download = func(_ context.Context, bucket, key string) ([]byte, error) {
		return nil, s3Error(bucket, key, boom)
	}

	table, err := reader.Fetch(context.Background())
	assert.Nil(t, table)
	assert.ErrorIs(t, err, core.ErrIO)
	assert.ErrorIs(t, err, boom)
}

func TestS3ErrorClassification(t *testing.T) {
	for _, code := range []string{"NoSuchKey", "NoSuchBucket"} {
		t.Run(code, func(t *testing.T) {
			err := s3Error("datasets", "person.parquet", minio.ErrorResponse{Code: code, StatusCode: 404})
			require.ErrorIs(t, err, core.ErrIO)
			assert.ErrorIs(t, err, fs.ErrNotExist)
			assert.Contains(t, err.Error(), "s3://datasets/person.parquet")
			assert.Contains(t, err.Error(), code)
		})
	}

	t.Run("AccessDenied", func(t *testing.T) {
		err := s3Error("datasets", "person.parquet", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403})
		require.ErrorIs(t, err, core.ErrIO)
		assert.False(t, errors.Is(err, fs.ErrNotExist))
		assert.Contains(t, err.Error(), "failed to download s3://datasets/person.parquet")
	})

	t.Run("transport", func(t *testing.T) {
		err := s3Error("datasets", "person.parquet", assert.AnError)
		require.ErrorIs(t, err, core.ErrIO)
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, errors.Is(err, fs.ErrNotExist))
	})
}
