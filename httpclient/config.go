package httpclient

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultTimeout             = 30 * time.Second
	defaultMaxIdleConnsPerHost = 10
)

// Content codings understood by the decompression stage.
const (
	EncodingGzip    = "gzip"
	EncodingDeflate = "deflate"
	EncodingBrotli  = "br"
)

// Config configures the HTTP adapter.
type Config struct {
	// Name identifies the adapter in logs.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the base address every request path is resolved against.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,http_url"`

	// Timeout bounds a whole exchange including reading the body. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth configures default authentication applied to all requests.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`

	// TLS configures TLS settings for the transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// MaxIdleConnsPerHost limits pooled idle connections per host. Defaults to 10.
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"gte=0"`

	// Compression configures response decompression.
	Compression CompressionConfig `yaml:"compression" mapstructure:"compression"`

	// HTTP2 configures protocol version negotiation.
	HTTP2 HTTP2Config `yaml:"http2" mapstructure:"http2"`
}

// CompressionConfig configures the decompression stage.
type CompressionConfig struct {
	// Disabled turns off Accept-Encoding negotiation and body decoding.
	Disabled bool `yaml:"disabled" mapstructure:"disabled"`
	// Encodings lists the accepted content codings in preference order.
	// Defaults to gzip, deflate, br.
	Encodings []string `yaml:"encodings" mapstructure:"encodings" validate:"dive,oneof=gzip deflate br"`
}

// HTTP2Config configures HTTP/2 usage.
type HTTP2Config struct {
	// Disabled keeps the base transport on HTTP/1.1. When false the base
	// transport offers h2 over TLS and falls back to HTTP/1.1.
	Disabled bool `yaml:"disabled" mapstructure:"disabled"`
	// Upgrade routes https requests through a dedicated HTTP/2 transport.
	Upgrade bool `yaml:"upgrade" mapstructure:"upgrade"`
	// ReadIdleTimeout enables health-check pings after this much idle time.
	ReadIdleTimeout time.Duration `yaml:"read_idle_timeout" mapstructure:"read_idle_timeout" validate:"gte=0"`
	// PingTimeout bounds a health-check ping.
	PingTimeout time.Duration `yaml:"ping_timeout" mapstructure:"ping_timeout" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxIdleConnsPerHost == 0 {
		c.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}
	if c.Compression.Encodings == nil {
		c.Compression.Encodings = []string{EncodingGzip, EncodingDeflate, EncodingBrotli}
	}
}

var configValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := configValidator().Struct(c); err != nil {
		return fmt.Errorf("httpclient: invalid config: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return c.Auth.validate()
}
