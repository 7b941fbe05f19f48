// Package observability sets up OpenTelemetry tracing and metrics exported
// over OTLP/HTTP.
//
//	tp, err := observability.InitTracer(ctx, cfg.Tracing)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "people.sync")
//	defer span.End()
//
// The providers are installed as the otel globals, so the httpclient tracing
// and metrics stages pick them up without further wiring.
package observability
