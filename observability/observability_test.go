package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func shutdownCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	t.Cleanup(cancel)
	return ctx
}

func TestTracerConfig(t *testing.T) {
	cfg := TracerConfig{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	tests := []struct {
		name    string
		cfg     TracerConfig
		wantErr bool
	}{
		{"disabled", TracerConfig{SampleRate: 1}, false},
		{"enabled", TracerConfig{Enabled: true, ServiceName: "svc", SampleRate: 0.5}, false},
		{"enabled without name", TracerConfig{Enabled: true, SampleRate: 1}, true},
		{"rate too high", TracerConfig{SampleRate: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMeterConfig(t *testing.T) {
	cfg := MeterConfig{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.Interval != 15*time.Second {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	tests := []struct {
		name    string
		cfg     MeterConfig
		wantErr bool
	}{
		{"disabled", MeterConfig{}, false},
		{"enabled", MeterConfig{Enabled: true, ServiceName: "svc", Endpoint: "localhost:4318"}, false},
		{"enabled without name", MeterConfig{Enabled: true, Endpoint: "localhost:4318"}, true},
		{"enabled without endpoint", MeterConfig{Enabled: true, ServiceName: "svc"}, true},
		{"negative interval", MeterConfig{Interval: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitTracer_Disabled(t *testing.T) {
	tp, err := InitTracer(context.Background(), TracerConfig{})
	if err != nil || tp != nil {
		t.Fatalf("expected nil provider, got %v %v", tp, err)
	}
}

func TestInitTracer(t *testing.T) {
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	for _, rate := range []float64{1.0, 0.5, 0} {
		cfg := TracerConfig{Enabled: true, ServiceName: "test", Endpoint: "localhost:4318", Insecure: true, SampleRate: rate}
		tp, err := InitTracer(context.Background(), cfg)
		if err != nil {
			t.Fatalf("InitTracer(%v): %v", rate, err)
		}
		if otel.GetTracerProvider() != tp {
			t.Error("provider was not installed globally")
		}
		_ = tp.Shutdown(shutdownCtx(t))
	}
}

func TestInitMeter(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	if mp, err := InitMeter(context.Background(), MeterConfig{}); err != nil || mp != nil {
		t.Fatalf("disabled meter should be nil, got %v %v", mp, err)
	}

	cfg := MeterConfig{Enabled: true, ServiceName: "test", Insecure: true}
	cfg.ApplyDefaults()
	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	if Meter("test") == nil {
		t.Error("expected a meter")
	}
	_ = mp.Shutdown(shutdownCtx(t))
}

func TestStartSpanAndSetSpanError(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	ctx, span := StartSpan(context.Background(), "people.sync")
	SetSpanError(ctx, errors.New("boom"))
	SetSpanError(ctx, nil)
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "people.sync" || spans[0].Status().Code != codes.Error {
		t.Errorf("unexpected span %s %v", spans[0].Name(), spans[0].Status())
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected one recorded error event, got %d", len(spans[0].Events()))
	}

	// no span in context
	SetSpanError(context.Background(), errors.New("ignored"))
}
