package jsonclient

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/kbukum/jsonkit/codec"
)

func isSuccess(code int) bool {
	return code >= 200 && code <= 299
}

// checkStatus returns a status *Error carrying the full body for non-2xx
// responses. Body read failures are returned unchanged.
func checkStatus(resp *http.Response) error {
	if isSuccess(resp.StatusCode) {
		return nil
	}
	body, err := readAll(resp.Body)
	if err != nil {
		return err
	}
	return &Error{
		Kind:       KindStatus,
		StatusCode: resp.StatusCode,
		Body:       body,
		Message:    fmt.Sprintf("unexpected HTTP status code of the response (%s)", statusLine(resp.StatusCode)),
	}
}

func statusLine(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprint(code)
}

func readAll(body io.Reader) ([]byte, error) {
	if body == nil || body == http.NoBody {
		return nil, nil
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}

// decodeBody deserializes the response body into a TResult. An absent or
// empty body yields the zero value. Bytes consumed by the codec are kept so
// that a failure can report the complete body.
func decodeBody[TResult any](resp *http.Response, c codec.Codec) (TResult, error) {
	var result TResult
	if resp.Body == nil || resp.Body == http.NoBody || resp.ContentLength == 0 {
		return result, nil
	}

	br := bufio.NewReader(resp.Body)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		return result, err
	}

	var consumed bytes.Buffer
	src := &trackingReader{r: br}
	if err := c.Decode(io.TeeReader(src, &consumed), &result); err != nil {
		var zero TResult
		if src.err != nil {
			return zero, src.err
		}
		if _, err := io.Copy(&consumed, br); err != nil {
			return zero, err
		}
		var body []byte
		if consumed.Len() > 0 {
			body = consumed.Bytes()
		}
		return zero, &Error{
			Kind:       KindDecode,
			StatusCode: resp.StatusCode,
			Body:       body,
			Message:    fmt.Sprintf("could not deserialize the response body as %s", reflect.TypeFor[TResult]().String()),
			Err:        err,
		}
	}
	return result, nil
}

// trackingReader remembers the first non-EOF read error so that transport
// failures can be told apart from malformed content.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}
