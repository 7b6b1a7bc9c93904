package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"florafinder/internal/enrichment"
	"florafinder/internal/identification"
	"florafinder/internal/services"
)

type identifyOutput struct {
	Result     identification.Result `json:"result"`
	Enrichment *enrichment.Result    `json:"enrichment,omitempty"`
}

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var organ string
	var imageURL string
	var project string
	var enrich bool

	cmd := &cobra.Command{
		Use:   "identify [image]",
		Short: "Identify a plant from a photograph",
		Long: `Identify a plant from a local image file or a remote URL.

The identification service is called exactly once. With --enrich the best
candidate is also looked up for conservation status and habitat.

Examples:
  florafinder identify leaf.jpg --organ leaf
  florafinder identify --url https://example.com/flower.jpg --organ flower --enrich
  florafinder identify bark.jpg --organ bark --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			var source identification.ImageSource
			switch {
			case len(args) == 1 && strings.TrimSpace(imageURL) != "":
				return fmt.Errorf("%w: pass either an image path or --url, not both", services.ErrValidation)
			case len(args) == 1:
				source = identification.FromPath(args[0])
			case strings.TrimSpace(imageURL) != "":
				source = identification.FromURL(imageURL)
			default:
				return fmt.Errorf("%w: an image path or --url is required", services.ErrValidation)
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
			result, err := comps.identifier.Identify(runCtx, identification.Request{
				Image:   source,
				Organ:   identification.Organ(organ),
				Project: project,
			})
			if err != nil {
				return err
			}

			output := identifyOutput{Result: result}
			if best, ok := result.Best(); ok && enrich {
				enriched := comps.enricher.Enrich(services.WithSpecies(runCtx, best.LookupName()), best.LookupName(), enrichment.IDs{
					IUCNID: best.IUCNID,
					GBIFID: best.GBIFID,
				})
				output.Enrichment = &enriched
			}

			if ctx.wantJSON(cmd) {
				if err := writeJSON(cmd, output); err != nil {
					return err
				}
			} else {
				printIdentify(cmd, output)
			}
			if !result.Succeeded() {
				return identifyFailureError(result.Failure)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&organ, "organ", "o", string(identification.OrganLeaf), "Plant organ shown in the image (flower, leaf, fruit, bark, habit, other)")
	cmd.Flags().StringVar(&imageURL, "url", "", "Identify an image downloaded from this URL")
	cmd.Flags().StringVar(&project, "project", "", "Identification project (default from config)")
	cmd.Flags().BoolVar(&enrich, "enrich", false, "Look up conservation status and habitat for the best candidate")
	return cmd
}

func printIdentify(cmd *cobra.Command, output identifyOutput) {
	out := cmd.OutOrStdout()
	if failure := output.Result.Failure; failure != nil {
		fmt.Fprintf(out, "Identification failed: %s\n", failure.Message)
		if failure.HTTPStatus != 0 {
			fmt.Fprintf(out, "Upstream status: %d\n", failure.HTTPStatus)
		}
		if body := services.Snippet(failure.RawBody, 300); body != "" {
			fmt.Fprintf(out, "Upstream body: %s\n", body)
		}
		return
	}
	fmt.Fprintln(out, renderCandidates(output.Result))
	if output.Result.RemainingRequests > 0 {
		fmt.Fprintf(out, "Remaining identification requests today: %d\n", output.Result.RemainingRequests)
	}
	if output.Enrichment != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderEnrichment(*output.Enrichment))
	}
}

func identifyFailureError(failure *identification.Failure) error {
	if failure.HTTPStatus == 0 {
		return fmt.Errorf("identification failed: %s", failure.Message)
	}
	return fmt.Errorf("identification failed (status %d): %s", failure.HTTPStatus, failure.Message)
}
