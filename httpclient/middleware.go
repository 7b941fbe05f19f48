package httpclient

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/jsonkit/logger"
)

const tracerName = "github.com/kbukum/jsonkit/httpclient"

// Middleware wraps a round tripper with an additional stage.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Logging logs every exchange: debug on completion, warn on transport error.
func Logging(log *logger.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			fields := logger.Fields(
				logger.FieldMethod, req.Method,
				logger.FieldURL, req.URL.Redacted(),
			)
			if err != nil {
				fields[logger.FieldError] = err.Error()
				log.Warn("http exchange failed", logger.MergeWithDuration(fields, time.Since(start)))
				return nil, err
			}
			fields[logger.FieldStatus] = resp.StatusCode
			fields[logger.FieldProto] = resp.Proto
			log.Debug("http exchange", logger.MergeWithDuration(fields, time.Since(start)))
			return resp, nil
		})
	}
}

// Tracing starts a client span per exchange and injects the trace context
// into the outgoing headers. Nil arguments select the otel globals.
func Tracing(tp trace.TracerProvider, prop propagation.TextMapPropagator) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			provider, propagator := tp, prop
			if provider == nil {
				provider = otel.GetTracerProvider()
			}
			if propagator == nil {
				propagator = otel.GetTextMapPropagator()
			}

			ctx, span := provider.Tracer(tracerName).Start(req.Context(), "HTTP "+req.Method,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("http.request.method", req.Method),
					attribute.String("url.full", req.URL.Redacted()),
					attribute.String("server.address", req.URL.Hostname()),
				),
			)
			defer span.End()

			req = req.Clone(ctx)
			propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

			resp, err := next.RoundTrip(req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			if resp.StatusCode >= http.StatusBadRequest {
				span.SetStatus(codes.Error, strconv.Itoa(resp.StatusCode))
			}
			return resp, nil
		})
	}
}
