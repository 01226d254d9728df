package main

import (
	"fmt"

	"github.com/TFMV/tableio/pkg/readers"
	"github.com/spf13/cobra"
)

func newSchemaCommand() *cobra.Command {
	options := &JobOptions{}

	cmd := &cobra.Command{
		Use:   "schema --config job.yaml",
		Short: "Load a dataset and print its Arrow schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := options.load()
			if err != nil {
				return err
			}

			table, _, err := fetchTable(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer table.Release()

			out := cmd.OutOrStdout()
			for _, field := range table.Schema().Fields() {
				nullable := ""
				if field.Nullable {
					nullable = " (nullable)"
				}
				fmt.Fprintf(out, "%s: %s%s\n", field.Name, field.Type, nullable)
			}
			fmt.Fprintf(out, "%d rows\n", table.NumRows())
			return nil
		},
	}

	options.bind(cmd)
	return cmd
}

func newValidateConfigCommand() *cobra.Command {
	options := &JobOptions{}

	cmd := &cobra.Command{
		Use:   "validate-config --config job.yaml",
		Short: "Check a job configuration without reading any data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := options.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if _, err := readers.GetIOReader(cfg.Source, cfg.Reader); err != nil {
				return err
			}
			cmd.Printf("configuration is valid (source %s, format %s)\n", cfg.Source, cfg.Reader.InputFormat)
			return nil
		},
	}

	options.bind(cmd)
	return cmd
}
