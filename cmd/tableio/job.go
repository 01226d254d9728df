package main

import (
	"context"
	"io"
	"time"

	"github.com/TFMV/tableio/config"
	"github.com/TFMV/tableio/metrics"
	"github.com/TFMV/tableio/pkg/core"
	"github.com/TFMV/tableio/pkg/readers"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// JobOptions are the flags shared by every command that fetches a table.
type JobOptions struct {
	ConfigPath string
	Kind       string
}

func (o *JobOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.ConfigPath, "config", "c", "", "Path to the YAML job configuration")
	cmd.Flags().StringVar(&o.Kind, "kind", "", "Source kind (nfs, s3); overrides the configuration file")
	_ = cmd.MarkFlagRequired("config")
}

func (o *JobOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.Kind != "" {
		cfg.Source = o.Kind
	}
	return cfg, nil
}

// fetchTable loads the table described by cfg, showing a spinner on w while
// the reader runs.
func fetchTable(ctx context.Context, cfg *config.Config, w io.Writer) (core.Table, metrics.FetchStats, error) {
	reader, err := readers.GetIOReader(cfg.Source, cfg.Reader)
	if err != nil {
		return nil, metrics.FetchStats{}, err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " fetching " + cfg.Reader.InputPath
	s.Start()

	start := time.Now()
	table, err := reader.Fetch(ctx)
	s.Stop()
	if err != nil {
		return nil, metrics.FetchStats{}, err
	}

	stats := metrics.FromTable(cfg.Source, string(cfg.Reader.InputFormat), cfg.Reader.InputPath, table, start)
	return table, stats, nil
}
