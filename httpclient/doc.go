// Package httpclient provides the HTTP transport used by jsonclient.
//
// An Adapter owns everything about reaching a service: the base address,
// default headers, authentication, TLS, timeouts and protocol settings.
// It builds requests relative to the base address and sends them in
// headers-ready mode: Do returns as soon as the status line and headers
// arrive, leaving the body unread for the caller. Transport failures are
// returned exactly as net/http reports them.
//
// Behaviour beyond plain net/http is added as round-tripper stages:
//
//   - Decompress: negotiates gzip, deflate and brotli and decodes bodies
//   - UpgradeHTTP2: sends https requests over a dedicated HTTP/2 transport
//   - Logging: structured exchange logs
//   - Metrics: OpenTelemetry duration and in-flight instruments
//   - Tracing: OpenTelemetry client spans with trace context propagation
//
// # Basic Usage
//
//	a, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Auth:    httpclient.BearerAuth("my-token"),
//	    HTTP2:   httpclient.HTTP2Config{Upgrade: true},
//	})
//
//	req, _ := a.NewRequest(ctx, http.MethodGet, "users/123", nil)
//	resp, err := a.Do(req)
//
// NewRestyTransport offers the same contract on top of a go-resty client.
package httpclient
