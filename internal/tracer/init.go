package tracer

import (
	"context"
	"log"

	"ship-computer-be/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// InitTracer wires the OTLP HTTP exporter so every bridge request shows
// up as a trace (Jaeger speaks OTLP on port 4318). Returns a shutdown
// function for application exit. Disabled unless TRACING_ENABLED=true;
// an escape room does not normally run a collector.
func InitTracer(cfg config.AppConfig) func(context.Context) error {
	if !cfg.TracingEnabled {
		log.Println("Tracing is disabled (set TRACING_ENABLED=true to enable)")
		return func(context.Context) error { return nil }
	}

	ctx := context.Background()

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OtlpEndpoint),
		otlptracehttp.WithInsecure(), // local collector, plain HTTP
	)
	if err != nil {
		log.Printf("Warning: Failed to create OTLP exporter: %v (tracing disabled)", err)
		return func(context.Context) error { return nil }
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("ship-computer-backend"),
		)),
	)

	otel.SetTracerProvider(tp)
	log.Printf("✅ Tracer initialized (endpoint: %s)", cfg.OtlpEndpoint)

	return tp.Shutdown
}
