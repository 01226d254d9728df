package main

import (
	"github.com/TFMV/tableio/metrics"
	"github.com/TFMV/tableio/report"
	"github.com/TFMV/tableio/utils"
	"github.com/spf13/cobra"
)

// FetchOptions represents the options for the fetch command.
type FetchOptions struct {
	JobOptions

	Limit     int
	Stats     bool
	StatsFile string
	Report    string
}

func newFetchCommand() *cobra.Command {
	options := &FetchOptions{Limit: 20}

	cmd := &cobra.Command{
		Use:   "fetch --config job.yaml",
		Short: "Load a dataset and print a preview of its rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, options)
		},
	}

	options.bind(cmd)
	cmd.Flags().IntVarP(&options.Limit, "limit", "n", options.Limit, "Number of rows to print (0 prints all)")
	cmd.Flags().BoolVar(&options.Stats, "stats", false, "Print fetch statistics as JSON")
	cmd.Flags().StringVar(&options.StatsFile, "stats-file", "", "Write fetch statistics to this file instead of stdout")
	cmd.Flags().StringVar(&options.Report, "report", "", "Write a fetch report (.html or .json)")

	return cmd
}

func runFetch(cmd *cobra.Command, options *FetchOptions) error {
	cfg, err := options.load()
	if err != nil {
		return err
	}

	table, stats, err := fetchTable(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer table.Release()

	if err := utils.Preview(cmd.OutOrStdout(), table, options.Limit); err != nil {
		return err
	}

	if options.Stats || options.StatsFile != "" {
		store := &metrics.JSONStatsStore{FilePath: options.StatsFile, Out: cmd.OutOrStdout()}
		if err := store.SaveWithContext(cmd.Context(), stats); err != nil {
			return err
		}
	}
	if options.Report != "" {
		return report.ForPath(options.Report).SaveReportToFile(stats, options.Report)
	}
	return nil
}
