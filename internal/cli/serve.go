package cli

import (
	"github.com/spf13/cobra"

	"euclidean-graph/internal/config"
	"euclidean-graph/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var configPath, addr, load string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve graph generation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			srv := server.New(cfg, c.Logger)
			if load != "" {
				if err := srv.Load(load); err != nil {
					c.Logger.Warn("No graph loaded", "path", load, "err", err)
				}
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&load, "load", "", "JSON graph to serve on startup")

	return cmd
}
