package jsonclient

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxBodyInMessage bounds how much of the response body Error() prints.
const maxBodyInMessage = 512

// ErrorKind identifies the pipeline stage that failed.
type ErrorKind int

const (
	// KindEncode means the request payload could not be serialized.
	KindEncode ErrorKind = iota + 1
	// KindStatus means the response status was outside 200..299.
	KindStatus
	// KindDecode means the response body could not be deserialized.
	KindDecode
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindEncode:
		return "encode"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error is returned for every failure the pipeline itself detects.
type Error struct {
	// Kind is the failed stage.
	Kind ErrorKind
	// StatusCode is the response status, or 0 when no response exists.
	StatusCode int
	// Body is the complete raw response body, nil when none was available.
	Body []byte
	// Message summarizes the failure.
	Message string
	// Err is the underlying codec failure, nil for status errors.
	Err error
}

// Error returns the raw response body, truncated to 512 characters, followed
// by the summary. Without a body only the summary is returned.
func (e *Error) Error() string {
	if len(e.Body) == 0 {
		return e.summary()
	}
	return withBody(truncate(string(e.Body), maxBodyInMessage), e.summary())
}

func (e *Error) summary() string {
	var b strings.Builder
	b.WriteString("jsonclient: ")
	b.WriteString(e.Message)
	if e.StatusCode != 0 {
		b.WriteString(" (status ")
		b.WriteString(strconv.Itoa(e.StatusCode))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func withBody(body, summary string) string {
	return "http response:\n\n" + body + "\n\n" + summary
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Format implements fmt.Formatter. %+v prints the complete body instead of
// the truncated one.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') && len(e.Body) > 0 {
			_, _ = io.WriteString(s, withBody(string(e.Body), e.summary()))
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + "..."
		}
		i++
	}
	return s
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsStatus reports whether err is a non-success status error.
func IsStatus(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindStatus
}

// IsDecode reports whether err is a response deserialization error.
func IsDecode(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindDecode
}

// IsEncode reports whether err is a payload serialization error.
func IsEncode(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindEncode
}

// StatusCode returns the response status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := AsError(err); ok {
		return e.StatusCode
	}
	return 0
}
