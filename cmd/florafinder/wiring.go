package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"florafinder/internal/config"
	"florafinder/internal/enrichment"
	"florafinder/internal/identification"
	"florafinder/internal/logging"
	"florafinder/internal/metrics"
	"florafinder/internal/services/gbif"
	"florafinder/internal/services/iucn"
	"florafinder/internal/services/plantnet"
	"florafinder/internal/services/trefle"
	"florafinder/internal/tracing"
)

// tracingFlushTimeout bounds how long exiting commands wait for span export.
const tracingFlushTimeout = 5 * time.Second

// components holds the orchestrators built from configuration.
type components struct {
	identifier *identification.Identifier
	enricher   *enrichment.Enricher
	metrics    *metrics.Metrics
	tracing    *tracing.Provider
	logger     *slog.Logger
}

// close flushes exported spans. It is safe on a nil receiver.
func (c *components) close() {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), tracingFlushTimeout)
	defer cancel()
	if err := c.tracing.Shutdown(ctx); err != nil && c.logger != nil {
		c.logger.Warn("span export incomplete", logging.Error(err))
	}
}

func buildComponents(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (comps *components, err error) {
	provider, err := tracing.Setup(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err != nil {
			_ = provider.Shutdown(context.Background())
		}
	}()

	plantnetClient, err := plantnet.New(plantnet.Config{
		APIKey:         cfg.PlantNet.APIKey,
		BaseURL:        cfg.PlantNet.BaseURL,
		Project:        cfg.PlantNet.Project,
		Language:       cfg.PlantNet.Language,
		MaxResults:     cfg.PlantNet.MaxResults,
		ConnectTimeout: cfg.PlantNet.Connect(),
		RequestTimeout: cfg.PlantNet.Request(),
	}, plantnet.WithObserver(m))
	if err != nil {
		return nil, fmt.Errorf("create plantnet client: %w", err)
	}
	iucnClient, err := iucn.New(iucn.Config{
		APIKey:         cfg.IUCN.APIKey,
		BaseURL:        cfg.IUCN.BaseURL,
		ConnectTimeout: cfg.IUCN.Connect(),
		RequestTimeout: cfg.IUCN.Request(),
	}, iucn.WithObserver(m))
	if err != nil {
		return nil, fmt.Errorf("create iucn client: %w", err)
	}
	trefleClient, err := trefle.New(trefle.Config{
		APIKey:         cfg.Trefle.APIKey,
		BaseURL:        cfg.Trefle.BaseURL,
		ConnectTimeout: cfg.Trefle.Connect(),
		RequestTimeout: cfg.Trefle.Request(),
	}, trefle.WithObserver(m))
	if err != nil {
		return nil, fmt.Errorf("create trefle client: %w", err)
	}
	gbifClient := gbif.New(gbif.Config{
		BaseURL:        cfg.GBIF.BaseURL,
		ConnectTimeout: cfg.GBIF.Connect(),
		RequestTimeout: cfg.GBIF.Request(),
	}, gbif.WithObserver(m))

	identifier := identification.New(plantnetClient,
		identification.WithLogger(logger),
		identification.WithTempDir(cfg.Paths.TempDir),
		identification.WithObserver(m),
		identification.WithRecorder(m),
	)
	enricher := enrichment.New(iucnClient, gbifClient, trefleClient,
		enrichment.WithLogger(logger),
		enrichment.WithRecorder(m),
	)
	return &components{
		identifier: identifier,
		enricher:   enricher,
		metrics:    m,
		tracing:    provider,
		logger:     logger,
	}, nil
}
