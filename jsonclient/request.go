package jsonclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/kbukum/jsonkit/codec"
)

const mediaTypeJSON = "application/json"

// CallOption configures a single call.
type CallOption func(*callOptions)

type callOptions struct {
	codec   codec.Codec
	headers http.Header
	query   map[string][]string
}

// WithCodec overrides the client's codec for one call.
func WithCodec(c codec.Codec) CallOption {
	return func(o *callOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithHeader adds a request header. Accept cannot be overridden.
func WithHeader(key, value string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		o.headers.Add(key, value)
	}
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) CallOption {
	return func(o *callOptions) {
		if o.query == nil {
			o.query = make(map[string][]string)
		}
		o.query[key] = append(o.query[key], value)
	}
}

func (c *Client) callOptions(opts []CallOption) callOptions {
	co := callOptions{codec: c.codec}
	for _, opt := range opts {
		opt(&co)
	}
	return co
}

func (c *Client) buildRequest(ctx context.Context, method, path string, payload any, inputType reflect.Type, co callOptions) (*http.Request, error) {
	var body io.Reader
	hasBody := hasPayload(payload)
	if hasBody {
		buf := new(bytes.Buffer)
		if err := co.codec.Encode(buf, payload); err != nil {
			return nil, &Error{
				Kind:    KindEncode,
				Message: fmt.Sprintf("could not serialize input of type %s to json", typeName(inputType)),
				Err:     err,
			}
		}
		body = bytes.NewReader(buf.Bytes())
	}

	req, err := c.transport.NewRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	for k, vs := range co.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if len(co.query) > 0 {
		q := req.URL.Query()
		for k, vs := range co.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Del("Accept")
	req.Header.Set("Accept", mediaTypeJSON)
	if hasBody {
		req.Header.Set("Content-Type", mediaTypeJSON)
	}
	return req, nil
}

// hasPayload reports whether v should be sent as a request body. Nil
// interfaces, pointers, maps, slices, channels and funcs are absent.
func hasPayload(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
