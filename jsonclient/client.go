package jsonclient

import (
	"context"
	"io"
	"net/http"
	"reflect"

	"github.com/kbukum/jsonkit/codec"
	"github.com/kbukum/jsonkit/logger"
)

// Transport creates requests and performs exchanges. Do must return as soon
// as the status and headers are available, leaving the body unread.
// *httpclient.Adapter and *httpclient.RestyTransport implement it.
type Transport interface {
	NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error)
	Do(req *http.Request) (*http.Response, error)
}

// Client runs JSON exchanges over a Transport. It holds no per-call state
// and is safe for concurrent use.
type Client struct {
	transport Transport
	codec     codec.Codec
	log       *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDefaultCodec sets the codec used when a call does not pass WithCodec.
func WithDefaultCodec(c codec.Codec) Option {
	return func(cl *Client) {
		if c != nil {
			cl.codec = c
		}
	}
}

// WithLogger sets the logger for failed exchanges.
func WithLogger(l *logger.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.log = l
		}
	}
}

// New creates a Client sending through t.
func New(t Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		codec:     codec.Default(),
		log:       logger.WithComponent("jsonclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transport returns the underlying transport.
func (c *Client) Transport() Transport {
	return c.transport
}

// Codec returns the default codec.
func (c *Client) Codec() codec.Codec {
	return c.codec
}

// exchange runs one request through the pipeline: build, send, check the
// status, decode. Only failures detected here become *Error.
func exchange[TResult any](ctx context.Context, c *Client, method, path string, payload any, inputType reflect.Type, opts []CallOption) (TResult, error) {
	var zero TResult
	co := c.callOptions(opts)

	req, err := c.buildRequest(ctx, method, path, payload, inputType, co)
	if err != nil {
		return zero, c.logFailure(method, path, err)
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return zero, err
	}
	if resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}

	if err := checkStatus(resp); err != nil {
		return zero, c.logFailure(method, path, err)
	}

	result, err := decodeBody[TResult](resp, co.codec)
	if err != nil {
		return zero, c.logFailure(method, path, err)
	}
	return result, nil
}

func (c *Client) logFailure(method, path string, err error) error {
	e, ok := AsError(err)
	if !ok {
		return err
	}
	c.log.Debug("json exchange failed", logger.Fields(
		logger.FieldMethod, method,
		logger.FieldPath, path,
		logger.FieldStatus, e.StatusCode,
		logger.FieldKind, e.Kind.String(),
		logger.FieldError, e.Message,
	))
	return err
}
