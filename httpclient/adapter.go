package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http2"

	"github.com/kbukum/jsonkit/logger"
	"github.com/kbukum/jsonkit/version"
)

// Adapter is a configured HTTP transport: it resolves request paths against a
// base address, applies default headers and auth, and sends requests through
// a chain of round-tripper stages. Responses are returned as soon as the
// status line and headers arrive; the body is left unread for the caller.
type Adapter struct {
	client     *http.Client
	config     Config
	base       http.RoundTripper
	middleware []Middleware
	log        *logger.Logger
	tp         trace.TracerProvider
	mp         metric.MeterProvider
	userAgent  string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRoundTripper replaces the base transport. Compression and HTTP/2
// stages still wrap it.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(a *Adapter) { a.base = rt }
}

// WithMiddleware appends caller stages. They run inside tracing and logging
// and outside decompression, first one outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *Adapter) { a.middleware = append(a.middleware, mw...) }
}

// WithLogger enables the logging stage.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithTracerProvider sets the provider used by the tracing stage.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Adapter) { a.tp = tp }
}

// WithMeterProvider sets the provider used by the metrics stage.
// The global provider is used otherwise.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(a *Adapter) { a.mp = mp }
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{config: cfg, userAgent: version.UserAgent()}
	for _, opt := range opts {
		opt(a)
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}

	if a.base == nil {
		base, err := newBaseTransport(&cfg, tlsCfg)
		if err != nil {
			return nil, err
		}
		a.base = base
	}

	rt := a.base
	if cfg.HTTP2.Upgrade && !cfg.HTTP2.Disabled {
		rt = UpgradeHTTP2(newHTTP2Transport(&cfg, tlsCfg))(rt)
	}
	if !cfg.Compression.Disabled {
		rt = Decompress(cfg.Compression.Encodings...)(rt)
	}
	for i := len(a.middleware) - 1; i >= 0; i-- {
		rt = a.middleware[i](rt)
	}
	if a.log != nil {
		rt = Logging(a.log.WithComponent("httpclient"))(rt)
	}
	metrics, err := Metrics(a.mp)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create metrics: %w", err)
	}
	rt = metrics(rt)
	rt = Tracing(a.tp, nil)(rt)

	a.client = &http.Client{Transport: rt, Timeout: cfg.Timeout}
	return a, nil
}

func newBaseTransport(cfg *Config, tlsCfg *tls.Config) (*http.Transport, error) {
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		// Decoding is done by the Decompress stage, never by net/http.
		DisableCompression: true,
		TLSClientConfig:    tlsCfg,
	}

	if cfg.HTTP2.Disabled {
		t.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
		return t, nil
	}
	h2, err := http2.ConfigureTransports(t)
	if err != nil {
		return nil, fmt.Errorf("httpclient: configure http2: %w", err)
	}
	h2.ReadIdleTimeout = cfg.HTTP2.ReadIdleTimeout
	h2.PingTimeout = cfg.HTTP2.PingTimeout
	return t, nil
}

// NewRequest builds a request for path resolved against the base URL.
// Absolute http(s) paths are used as given. Configured headers override the
// default User-Agent.
func (a *Adapter) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.resolve(path), body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	for k, v := range a.config.Headers {
		req.Header.Set(k, v)
	}
	a.config.Auth.apply(req)
	return req, nil
}

func (a *Adapter) resolve(path string) string {
	if a.config.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Do sends req and returns once the response headers are available.
// Errors from the underlying transport are returned unchanged.
func (a *Adapter) Do(req *http.Request) (*http.Response, error) {
	return a.client.Do(req)
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// BaseURL returns the configured base address.
func (a *Adapter) BaseURL() string {
	return a.config.BaseURL
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.client
}

// Close releases idle connections held by the adapter.
func (a *Adapter) Close(_ context.Context) error {
	a.client.CloseIdleConnections()
	return nil
}
