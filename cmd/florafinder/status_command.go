package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the identification service and list its languages",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			status := comps.identifier.ServiceStatus(runCtx)
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, status)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStatus(status))
			return nil
		},
	}
}
