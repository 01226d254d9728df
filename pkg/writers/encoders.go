package writers

import (
	"context"
	"encoding/json"
	"io"
	"unicode/utf8"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/TFMV/tableio/utils"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// checkContext returns ctx.Err() once ctx is done.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// encodeText writes delimited text, with a header line when configured.
func encodeText(ctx context.Context, w io.Writer, table core.Table, config core.WriterConfig, _ memory.Allocator) error {
	comma := ','
	if config.Delimiter != "" {
		comma, _ = utf8.DecodeRuneInString(config.Delimiter)
	}

	writer := csv.NewWriter(w, table.Schema(), csv.WithComma(comma), csv.WithHeader(config.Header), csv.WithNullWriter(""))
	err := utils.ForEachRecord(table, func(rec arrow.Record) error {
		if err := checkContext(ctx); err != nil {
			return err
		}
		return writer.Write(rec)
	})
	if err != nil {
		return core.Errorf(core.ErrIO, "failed to write text: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return core.Errorf(core.ErrIO, "failed to flush text: %w", err)
	}
	return nil
}

func parquetCodec(name string) compress.Compression {
	switch name {
	case "zstd":
		return compress.Codecs.Zstd
	case "gzip":
		return compress.Codecs.Gzip
	case "none":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}

// encodeParquet writes a Parquet file, storing the Arrow schema so that
// types survive a round trip.
func encodeParquet(ctx context.Context, w io.Writer, table core.Table, config core.WriterConfig, alloc memory.Allocator) error {
	writeProps := parquet.NewWriterProperties(
		parquet.WithCompression(parquetCodec(config.Compression)),
		parquet.WithDictionaryDefault(false),
		parquet.WithAllocator(alloc),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), w, writeProps, arrowProps)
	if err != nil {
		return core.Errorf(core.ErrUnsupportedType, "failed to create Parquet writer: %w", err)
	}

	err = utils.ForEachRecord(table, func(rec arrow.Record) error {
		if err := checkContext(ctx); err != nil {
			return err
		}
		return writer.Write(rec)
	})
	if err != nil {
		writer.Close()
		return core.Errorf(core.ErrIO, "failed to write Parquet record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return core.Errorf(core.ErrIO, "failed to close Parquet writer: %w", err)
	}
	return nil
}

// encodeArrow writes an Arrow IPC file.
func encodeArrow(ctx context.Context, w io.Writer, table core.Table, _ core.WriterConfig, alloc memory.Allocator) error {
	writer, err := ipc.NewFileWriter(w, ipc.WithSchema(table.Schema()), ipc.WithAllocator(alloc))
	if err != nil {
		return core.Errorf(core.ErrIO, "failed to create Arrow writer: %w", err)
	}

	err = utils.ForEachRecord(table, func(rec arrow.Record) error {
		if err := checkContext(ctx); err != nil {
			return err
		}
		return writer.Write(rec)
	})
	if err != nil {
		writer.Close()
		return core.Errorf(core.ErrIO, "failed to write Arrow record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return core.Errorf(core.ErrIO, "failed to close Arrow writer: %w", err)
	}
	return nil
}

// encodeJSON writes the table as a JSON array of row objects.
func encodeJSON(ctx context.Context, w io.Writer, table core.Table, _ core.WriterConfig, _ memory.Allocator) error {
	rows, err := utils.RowMaps(table)
	if err != nil {
		return core.Errorf(core.ErrIO, "failed to read table: %w", err)
	}
	if err := checkContext(ctx); err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return core.Errorf(core.ErrIO, "failed to encode rows: %w", err)
	}
	return nil
}

// unsupported reports a column type an encoder cannot write.
func unsupported(format core.Format, field arrow.Field) error {
	return core.Errorf(core.ErrUnsupportedType, "%s output cannot hold column %q of type %s", format, field.Name, field.Type)
}
