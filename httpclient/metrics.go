package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/kbukum/jsonkit/httpclient"

// Metrics records a duration histogram and an in-flight counter per exchange.
// A nil provider selects the otel global.
func Metrics(mp metric.MeterProvider) (Middleware, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of HTTP client exchanges up to the response headers."),
	)
	if err != nil {
		return nil, err
	}
	active, err := meter.Int64UpDownCounter("http.client.active_requests",
		metric.WithUnit("{request}"),
		metric.WithDescription("Number of HTTP client exchanges waiting for response headers."),
	)
	if err != nil {
		return nil, err
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			method := attribute.String("http.request.method", req.Method)
			host := attribute.String("server.address", req.URL.Hostname())

			active.Add(ctx, 1, metric.WithAttributes(method, host))
			start := time.Now()
			resp, err := next.RoundTrip(req)
			active.Add(ctx, -1, metric.WithAttributes(method, host))

			attrs := []attribute.KeyValue{method, host}
			if err != nil {
				attrs = append(attrs, attribute.String("error.type", errorType(err)))
			} else {
				attrs = append(attrs, attribute.Int("http.response.status_code", resp.StatusCode))
			}
			duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
			return resp, err
		})
	}, nil
}

func errorType(err error) string {
	switch {
	case IsTimeout(err):
		return "timeout"
	case IsCanceled(err):
		return "canceled"
	case IsConnection(err):
		return "connection"
	default:
		return "other"
	}
}
