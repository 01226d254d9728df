// Package main is the entry point for the tableio CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/tableio/logger"
	"github.com/TFMV/tableio/pkg/writers"
	"github.com/TFMV/tableio/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	LogLevel string
	LogFile  string
}

func newRootCommand() *cobra.Command {
	options := &rootOptions{LogLevel: "info"}

	rootCmd := &cobra.Command{
		Use:   "tableio",
		Short: "Load delimited text, Parquet and ORC files into Arrow tables",
		Long: `tableio loads datasets from a mounted filesystem (nfs) or an S3-compatible
object store (s3) into in-memory Arrow tables.

Text files are decoded with the column names and types given in the
configuration; Parquet and ORC files carry their own schema. The result can
be previewed, inspected, converted to another format or served over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zapcore.ParseLevel(options.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			logger.SetLevel(level)
			logger.SetLogPath(options.LogFile)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&options.LogLevel, "log-level", options.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&options.LogFile, "log-file", "", "Also write JSON logs to this file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of tableio",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.String())
		},
	})

	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newConvertCommand(writers.NewFactory()))
	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newValidateConfigCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
