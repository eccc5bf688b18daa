package main

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// setupTracing builds a stdout-exporting OpenTelemetry tracer provider
// for the --trace flag: one span per query with per-tool child spans,
// pretty-printed to stderr. Returns the tracer and a shutdown func to
// flush pending spans before exit.
func setupTracing() (trace.Tracer, func(), error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	shutdown := func() {
		_ = provider.Shutdown(context.Background())
	}
	return provider.Tracer("cortex"), shutdown, nil
}
