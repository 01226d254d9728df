package readers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/TFMV/tableio/logger"
	"github.com/TFMV/tableio/pkg/core"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Reader loads an object from an S3-compatible store. InputPath has the
// form s3://bucket/key.
type S3Reader struct {
	config core.ReaderConfig
	bucket string
	key    string
	client *minio.Client
	alloc  memory.Allocator

	// download is swapped in tests.
	download func(ctx context.Context, bucket, key string) ([]byte, error)
}

// ParseS3URI splits s3://bucket/key into bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", core.Errorf(core.ErrConfiguration, "invalid input_path %q: %w", uri, err)
	}
	if u.Scheme != "s3" {
		return "", "", core.Errorf(core.ErrConfiguration, "input_path %q must use the s3:// scheme", uri)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", core.Errorf(core.ErrConfiguration, "input_path %q must name a bucket and a key", uri)
	}
	return bucket, key, nil
}

// NewS3Reader validates config and creates a reader. The client is created
// eagerly but no request is sent until Fetch.
func NewS3Reader(config core.ReaderConfig) (core.DatasetReader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Endpoint == "" {
		return nil, core.Errorf(core.ErrConfiguration, "endpoint is required for s3 input")
	}
	bucket, key, err := ParseS3URI(config.InputPath)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure:       config.UseSSL,
		Region:       config.Region,
		BucketLookup: minio.BucketLookupAuto,
	})
	if err != nil {
		return nil, core.Errorf(core.ErrConfiguration, "failed to create s3 client for %s: %w", config.Endpoint, err)
	}

	r := &S3Reader{
		config: config.Clone(),
		bucket: bucket,
		key:    key,
		client: client,
		alloc:  memory.NewGoAllocator(),
	}
	r.download = r.getObject
	return r, nil
}

// Fetch downloads the object into memory, decodes it and projects it to the
// required columns.
func (r *S3Reader) Fetch(ctx context.Context) (core.Table, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	log := logger.GetLogger().With(
		zap.String("source", string(core.SourceS3)),
		zap.String("bucket", r.bucket),
		zap.String("key", r.key),
		zap.String("format", string(r.config.InputFormat)),
	)
	log.Debug("fetching dataset")
	start := time.Now()

	data, err := r.download(ctx, r.bucket, r.key)
	if err != nil {
		return nil, err
	}

	table, err := decode(ctx, bytes.NewReader(data), r.config, r.alloc)
	if err != nil {
		return nil, err
	}

	table, err = project(table, r.config.RequiredCols)
	if err != nil {
		return nil, err
	}

	log.Info("fetched dataset",
		zap.Int("bytes", len(data)),
		zap.Int64("rows", table.NumRows()),
		zap.Int64("columns", table.NumCols()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return table, nil
}

// Config returns a copy of the reader's configuration.
func (r *S3Reader) Config() core.ReaderConfig {
	return r.config.Clone()
}

func (r *S3Reader) getObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := r.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s3Error(bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s3Error(bucket, key, err)
	}
	return data, nil
}

func s3Error(bucket, key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return core.Errorf(core.ErrIO, "s3://%s/%s: %w", bucket, key, fmt.Errorf("%s: %w", resp.Code, fs.ErrNotExist))
	}
	return core.Errorf(core.ErrIO, "failed to download s3://%s/%s: %w", bucket, key, err)
}
