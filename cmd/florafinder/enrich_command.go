package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"florafinder/internal/enrichment"
	"florafinder/internal/services"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var iucnID string
	var gbifID string

	cmd := &cobra.Command{
		Use:   "enrich <scientific name>",
		Short: "Show conservation status and habitat for a species",
		Long: `Look up conservation status and habitat for a species.

Registry ids skip name matching when known. Upstream failures never abort the
command; unavailable data falls back to defaults.

Examples:
  florafinder enrich "Quercus robur"
  florafinder enrich "Pinus sylvestris" --gbif-id 5285637`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" && strings.TrimSpace(iucnID) == "" && strings.TrimSpace(gbifID) == "" {
				return fmt.Errorf("%w: a scientific name, --iucn-id, or --gbif-id is required", services.ErrValidation)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.commandLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}
			comps, err := buildComponents(cfg, logger, nil)
			if err != nil {
				return err
			}
			defer comps.close()

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			result := comps.enricher.Enrich(runCtx, name, enrichment.IDs{IUCNID: iucnID, GBIFID: gbifID})
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderEnrichment(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&iucnID, "iucn-id", "", "IUCN Red List taxon id")
	cmd.Flags().StringVar(&gbifID, "gbif-id", "", "GBIF species key")
	return cmd
}
