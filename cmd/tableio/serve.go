package main

import (
	"github.com/TFMV/tableio/api"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	opts := api.ServerOptions{Port: "5555"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tableio API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := api.NewServer(opts)
			return server.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", opts.Port, "Port to listen on")
	cmd.Flags().BoolVar(&opts.Prefork, "prefork", false, "Use multiple OS processes (SO_REUSEPORT)")
	cmd.Flags().BoolVar(&opts.AccessLog, "access-log", false, "Log every request")

	return cmd
}
