package httpclient

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Decompress advertises the given content codings and transparently decodes
// matching response bodies. Requests that already carry Accept-Encoding are
// left to the caller.
func Decompress(encodings ...string) Middleware {
	accept := strings.Join(encodings, ", ")
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if accept == "" || req.Header.Get("Accept-Encoding") != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set("Accept-Encoding", accept)

			resp, err := next.RoundTrip(req)
			if err != nil {
				return nil, err
			}
			if resp.Body == nil || resp.Body == http.NoBody {
				return resp, nil
			}
			coding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
			if !isKnownEncoding(coding) {
				return resp, nil
			}

			resp.Body = &decodingBody{src: resp.Body, coding: coding}
			resp.Header.Del("Content-Encoding")
			resp.Header.Del("Content-Length")
			resp.ContentLength = -1
			resp.Uncompressed = true
			return resp, nil
		})
	}
}

func isKnownEncoding(coding string) bool {
	switch coding {
	case EncodingGzip, "x-gzip", EncodingDeflate, EncodingBrotli:
		return true
	}
	return false
}

// decodingBody opens its decoder on first read so that a response whose body
// is never consumed does not block on the compression header.
type decodingBody struct {
	src    io.ReadCloser
	coding string
	r      io.Reader
	err    error
}

func (b *decodingBody) Read(p []byte) (int, error) {
	if b.r == nil && b.err == nil {
		b.r, b.err = newDecoder(b.coding, b.src)
	}
	if b.err != nil {
		return 0, b.err
	}
	return b.r.Read(p)
}

func (b *decodingBody) Close() error {
	if c, ok := b.r.(io.Closer); ok {
		_ = c.Close()
	}
	return b.src.Close()
}

func newDecoder(coding string, src io.Reader) (io.Reader, error) {
	switch coding {
	case EncodingGzip, "x-gzip":
		return gzip.NewReader(src)
	case EncodingDeflate:
		return newDeflateReader(src)
	case EncodingBrotli:
		return brotli.NewReader(src), nil
	}
	return src, nil
}

// newDeflateReader accepts both zlib-wrapped streams (RFC 1950) and the raw
// deflate streams some servers send under the same coding.
func newDeflateReader(src io.Reader) (io.Reader, error) {
	br := bufio.NewReader(src)
	header, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(header) == 2 && isZlibHeader(header[0], header[1]) {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}

func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0f == 8 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}
