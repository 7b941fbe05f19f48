package jsonclient

import (
	"context"
	"net/http"
	"reflect"
)

// Get fetches the resource at path.
func Get[TResult any](ctx context.Context, c *Client, path string, opts ...CallOption) (TResult, error) {
	return exchange[TResult](ctx, c, http.MethodGet, path, nil, nil, opts)
}

// Post creates a resource from in.
func Post[TResult, TInput any](ctx context.Context, c *Client, path string, in TInput, opts ...CallOption) (TResult, error) {
	return Send[TResult](ctx, c, http.MethodPost, path, in, opts...)
}

// Put replaces the resource at path with in.
func Put[TResult, TInput any](ctx context.Context, c *Client, path string, in TInput, opts ...CallOption) (TResult, error) {
	return Send[TResult](ctx, c, http.MethodPut, path, in, opts...)
}

// Patch partially updates the resource at path.
func Patch[TResult, TInput any](ctx context.Context, c *Client, path string, in TInput, opts ...CallOption) (TResult, error) {
	return Send[TResult](ctx, c, http.MethodPatch, path, in, opts...)
}

// Delete removes the resource at path. A non-nil in is sent as the body.
func Delete[TResult, TInput any](ctx context.Context, c *Client, path string, in TInput, opts ...CallOption) (TResult, error) {
	return Send[TResult](ctx, c, http.MethodDelete, path, in, opts...)
}

// Send performs an exchange with an arbitrary method. A nil in sends no body.
func Send[TResult, TInput any](ctx context.Context, c *Client, method, path string, in TInput, opts ...CallOption) (TResult, error) {
	return exchange[TResult](ctx, c, method, path, in, reflect.TypeFor[TInput](), opts)
}
