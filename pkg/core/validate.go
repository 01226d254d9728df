package core

import (
	"unicode/utf8"
)

// validate is a helper function to reduce repetition.
func validate(condition bool, format string, a ...any) error {
	if !condition {
		return Errorf(ErrConfiguration, format, a...)
	}
	return nil
}

// checkDelimiter accepts exactly one rune that encoding/csv can use as a
// field separator.
func checkDelimiter(delimiter string) error {
	r, size := utf8.DecodeRuneInString(delimiter)
	if err := validate(size == len(delimiter) && delimiter != "",
		"delimiter must be a single character, got %q", delimiter); err != nil {
		return err
	}
	return validate(r != 0 && r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r),
		"delimiter %q cannot separate fields", delimiter)
}

// Validate checks that every key required by InputFormat is present.
func (c ReaderConfig) Validate() error {
	if err := validate(c.InputPath != "", "input_path is required"); err != nil {
		return err
	}
	switch c.InputFormat {
	case FormatText:
		return c.validateText()
	case FormatParquet, FormatORC:
		return nil
	case "":
		return Errorf(ErrConfiguration, "input_format is required")
	default:
		return Errorf(ErrConfiguration, "unsupported input_format %q (want text, parquet or orc)", c.InputFormat)
	}
}

func (c ReaderConfig) validateText() error {
	if err := validate(len(c.Schema) > 0, "schema is required for text input"); err != nil {
		return err
	}
	if err := validate(c.Delimiter != "", "delimiter is required for text input"); err != nil {
		return err
	}
	if err := checkDelimiter(c.Delimiter); err != nil {
		return err
	}
	if err := validate(len(c.Dtype) > 0, "dtype is required for text input"); err != nil {
		return err
	}
	if err := validate(len(c.Dtype) == len(c.Schema),
		"dtype has %d entries but schema has %d", len(c.Dtype), len(c.Schema)); err != nil {
		return err
	}
	if err := validate(c.Header != nil, "header is required for text input"); err != nil {
		return err
	}
	if err := validate(*c.Header >= 0 || *c.Header == NoHeader,
		"header must be a non-negative row count or %d, got %d", NoHeader, *c.Header); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Schema))
	for _, name := range c.Schema {
		if err := validate(name != "", "schema contains an empty column name"); err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			return Errorf(ErrConfiguration, "schema contains duplicate column %q", name)
		}
		seen[name] = struct{}{}
	}
	for _, name := range c.Dtype {
		if _, err := ParseDtype(name); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the writer configuration.
func (c WriterConfig) Validate() error {
	if err := validate(c.OutputPath != "", "output_path is required"); err != nil {
		return err
	}
	switch c.OutputFormat {
	case FormatText:
		if c.Delimiter != "" {
			return checkDelimiter(c.Delimiter)
		}
		return nil
	case FormatParquet:
		switch c.Compression {
		case "", "snappy", "zstd", "gzip", "none":
			return nil
		default:
			return Errorf(ErrConfiguration, "unsupported compression %q", c.Compression)
		}
	case FormatORC, FormatArrow, FormatJSON:
		return nil
	case "":
		return Errorf(ErrConfiguration, "output_format is required")
	default:
		return Errorf(ErrConfiguration, "unsupported output_format %q", c.OutputFormat)
	}
}
