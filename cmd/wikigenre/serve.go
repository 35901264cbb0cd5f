package main

import (
	"github.com/spf13/cobra"

	"github.com/justestif/go-wikigenre/internal/web"
)

func newServeCommand(cc *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve genre lookups over HTTP",
		Long: `Serve answers GET /genres?artist=&album= with title-cased genres as JSON.
Lookups share one cache for the lifetime of the process. When a database is
configured, GET /runs lists recent tagging runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cc.ensureLogger()
			if err != nil {
				return err
			}
			cache, err := cc.newCache(ctx)
			if err != nil {
				return err
			}

			serverCfg := web.ServerConfig{
				Addr:     cfg.Serve.Addr,
				Resolver: cache,
				Logger:   logger,
			}
			if cmd.Flags().Changed("addr") {
				serverCfg.Addr = addr
			}

			database, err := cc.openDatabase(ctx)
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
				serverCfg.Runs = database.Runs()
			}

			server, err := web.NewServer(serverCfg)
			if err != nil {
				return err
			}
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", web.DefaultAddr, "Address to listen on")
	return cmd
}
