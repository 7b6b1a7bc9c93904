package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"florafinder/internal/api"
	"florafinder/internal/daemon"
	"florafinder/internal/logging"
	"florafinder/internal/metrics"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

Endpoints:
  POST /api/identify      multipart: image or image_url, organ, project, enrich
  GET  /api/enrich        ?name=&iucn_id=&gbif_id=
  GET  /api/conservation  ?name=&iucn_id=
  GET  /api/habitat       ?name=&gbif_id=
  GET  /api/status
  GET  /metrics           (when server.metrics is enabled)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}
			if ctx.verbose != nil && *ctx.verbose {
				cfg.Logging.Level = "debug"
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			var m *metrics.Metrics
			if cfg.Server.Metrics {
				m = metrics.New()
			}
			comps, err := buildComponents(cfg, logger, m)
			if err != nil {
				return err
			}
			defer comps.close()
			handler := api.New(comps.identifier, comps.enricher, logger,
				api.WithToken(cfg.Server.Token),
				api.WithTimeout(time.Duration(cfg.Server.WriteTimeout)*time.Second),
			)

			d, err := daemon.New(cfg, daemon.NewRouter(handler, m), logger)
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			if err := d.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", d.Addr())
			d.Wait()
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default from config)")
	return cmd
}
