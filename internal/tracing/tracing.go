package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"florafinder/internal/config"
)

// ServiceName identifies this process in exported spans.
const ServiceName = "florafinder"

// Provider owns the installed tracer provider and its export sink.
type Provider struct {
	provider *sdktrace.TracerProvider
	sink     io.Closer
}

// Setup installs a tracer provider according to cfg. It returns a nil
// Provider when tracing is disabled; Shutdown on a nil Provider is a no-op.
func Setup(cfg config.Tracing) (*Provider, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	writer, sink, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(writer))
	if err != nil {
		closeSink(sink)
		return nil, fmt.Errorf("create span exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return &Provider{provider: provider, sink: sink}, nil
}

// Shutdown flushes pending spans and closes the export file.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	err := p.provider.Shutdown(ctx)
	if p.sink != nil {
		err = errors.Join(err, p.sink.Close())
	}
	return err
}

func openOutput(output string) (io.Writer, io.Closer, error) {
	switch output {
	case "stdout":
		return os.Stdout, nil, nil
	case "", "stderr":
		return os.Stderr, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create trace directory: %w", err)
	}
	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace output: %w", err)
	}
	return file, file, nil
}

func closeSink(sink io.Closer) {
	if sink != nil {
		_ = sink.Close()
	}
}
