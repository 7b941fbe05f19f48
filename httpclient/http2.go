package httpclient

import (
	"crypto/tls"
	"net/http"
	"strings"

	"golang.org/x/net/http2"
)

func newHTTP2Transport(cfg *Config, tlsCfg *tls.Config) *http2.Transport {
	var tc *tls.Config
	if tlsCfg != nil {
		tc = tlsCfg.Clone()
	} else {
		tc = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	tc.NextProtos = []string{http2.NextProtoTLS, "http/1.1"}
	return &http2.Transport{
		TLSClientConfig: tc,
		ReadIdleTimeout: cfg.HTTP2.ReadIdleTimeout,
		PingTimeout:     cfg.HTTP2.PingTimeout,
	}
}

// UpgradeHTTP2 sends https requests over HTTP/2 through h2. Other schemes go
// to the next stage. When the server does not negotiate h2 and the request
// body can be replayed, the request is sent once more through next.
func UpgradeHTTP2(h2 http.RoundTripper) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Scheme != "https" {
				return next.RoundTrip(req)
			}
			resp, err := h2.RoundTrip(req)
			if err == nil || !isALPNMismatch(err) {
				return resp, err
			}
			fallback, ok := rewind(req)
			if !ok {
				return nil, err
			}
			return next.RoundTrip(fallback)
		})
	}
}

// isALPNMismatch reports whether err is the failure http2.Transport returns
// when the server picked a protocol other than h2.
func isALPNMismatch(err error) bool {
	return err != nil && strings.Contains(err.Error(), "unexpected ALPN protocol")
}

func rewind(req *http.Request) (*http.Request, bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, true
}
