// Package config loads reader and writer configurations from YAML files,
// generic key/value mappings and TABLEIO_* environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TFMV/tableio/pkg/core"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. TABLEIO_READER_INPUT_PATH.
const EnvPrefix = "TABLEIO"

// --- Configuration Structs ---

// Config is the file form of a fetch job.
type Config struct {
	// Source is the source kind handed to the reader factory.
	Source string `mapstructure:"source" yaml:"source"`

	Reader core.ReaderConfig `mapstructure:"reader" yaml:"reader"`

	// Writer is optional; it is used by the convert command.
	Writer *core.WriterConfig `mapstructure:"writer" yaml:"writer,omitempty"`
}

// --- Load Configuration ---

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("source", string(core.SourceNFS))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads a configuration file. The type is taken from the extension and
// defaults to YAML.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	if filepath.Ext(configPath) == "" {
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, core.Errorf(core.ErrConfiguration, "failed to read config %s: %w", configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, core.Errorf(core.ErrConfiguration, "failed to decode config %s: %w", configPath, err)
	}
	return &cfg, nil
}

// FromMap decodes the mapping form of a reader configuration, e.g.
//
//	{"input_path": "/data/person.csv", "input_format": "text", "header": 0, ...}
//
// Values are weakly typed: "0" decodes into header and a []any of strings
// into schema. Unknown keys are ignored.
func FromMap(m map[string]any) (core.ReaderConfig, error) {
	v := viper.New()
	if err := v.MergeConfigMap(m); err != nil {
		return core.ReaderConfig{}, core.Errorf(core.ErrConfiguration, "invalid configuration mapping: %w", err)
	}

	var cfg core.ReaderConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return core.ReaderConfig{}, core.Errorf(core.ErrConfiguration, "failed to decode configuration mapping: %w", err)
	}
	return cfg, nil
}

// WriterFromMap decodes the mapping form of a writer configuration.
func WriterFromMap(m map[string]any) (core.WriterConfig, error) {
	v := viper.New()
	if err := v.MergeConfigMap(m); err != nil {
		return core.WriterConfig{}, core.Errorf(core.ErrConfiguration, "invalid configuration mapping: %w", err)
	}

	var cfg core.WriterConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return core.WriterConfig{}, core.Errorf(core.ErrConfiguration, "failed to decode configuration mapping: %w", err)
	}
	return cfg, nil
}

// --- Validation Functions ---

// Validate checks the source kind and both sections.
func (c *Config) Validate() error {
	if c.Source == "" {
		return core.Errorf(core.ErrConfiguration, "source is required")
	}
	if err := c.Reader.Validate(); err != nil {
		return fmt.Errorf("reader validation failed: %w", err)
	}
	if c.Writer != nil {
		if err := c.Writer.Validate(); err != nil {
			return fmt.Errorf("writer validation failed: %w", err)
		}
	}
	return nil
}
