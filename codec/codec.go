package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Codec names accepted by ByName and Config.
const (
	NameSonic    = "sonic"
	NameGoccy    = "goccy"
	NameJSONIter = "jsoniter"
	NameStd      = "std"
)

// Codec encodes and decodes JSON streams.
type Codec interface {
	// Name identifies the codec implementation.
	Name() string
	// Encode writes the JSON encoding of v to w.
	Encode(w io.Writer, v any) error
	// Decode reads one JSON value from r and stores it in the value pointed to by v.
	// Anything but whitespace after that value is a decode error.
	Decode(r io.Reader, v any) error
}

// Options is the serialization configuration shared by all codecs.
// Settings a library does not support are ignored by that codec.
type Options struct {
	// EscapeHTML escapes <, > and & inside JSON strings.
	EscapeHTML bool `yaml:"escape_html" mapstructure:"escape_html"`
	// SortMapKeys emits map keys in sorted order.
	SortMapKeys bool `yaml:"sort_map_keys" mapstructure:"sort_map_keys"`
	// UseNumber decodes numbers into interface{} values as json.Number.
	UseNumber bool `yaml:"use_number" mapstructure:"use_number"`
	// DisallowUnknownFields rejects objects with keys that do not match
	// any exported field of the destination struct.
	DisallowUnknownFields bool `yaml:"disallow_unknown_fields" mapstructure:"disallow_unknown_fields"`
	// Indent, when non-empty, pretty-prints encoded output.
	Indent string `yaml:"indent" mapstructure:"indent"`
}

// DefaultOptions mirrors the behaviour of encoding/json's defaults.
func DefaultOptions() Options {
	return Options{
		EscapeHTML:  true,
		SortMapKeys: true,
	}
}

// Default returns the process-wide codec. It is built once and never
// mutated afterwards.
var Default = sync.OnceValue(func() Codec {
	return NewSonic(DefaultOptions())
})

// ByName builds the codec registered under name. An empty name selects sonic.
func ByName(name string, opts Options) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameSonic:
		return NewSonic(opts), nil
	case NameGoccy:
		return NewGoccy(opts), nil
	case NameJSONIter:
		return NewJSONIter(opts), nil
	case NameStd:
		return NewStd(opts), nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}

// Config selects and configures a codec from configuration files.
type Config struct {
	// Name is one of sonic, goccy, jsoniter or std. Defaults to sonic.
	Name    string `yaml:"name" mapstructure:"name"`
	Options `yaml:",inline" mapstructure:",squash"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = NameSonic
	}
}

// Validate checks that the configured codec exists.
func (c *Config) Validate() error {
	_, err := ByName(c.Name, c.Options)
	return err
}

// Build returns the configured codec.
func (c Config) Build() (Codec, error) {
	return ByName(c.Name, c.Options)
}

// FormatError reports JSON that could not be produced or consumed:
// unsupported values on encode, malformed syntax or a shape that does not
// fit the destination type on decode.
type FormatError struct {
	// Op is "encode" or "decode".
	Op string
	// Codec is the name of the codec that failed.
	Codec string
	// Type is the Go type being encoded or decoded into.
	Type string
	// Err is the library error.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("codec: %s %s %s: %v", e.Codec, e.Op, e.Type, e.Err)
}

// Unwrap returns the library error.
func (e *FormatError) Unwrap() error { return e.Err }

func encodeError(codec string, v any, err error) error {
	return &FormatError{Op: "encode", Codec: codec, Type: fmt.Sprintf("%T", v), Err: err}
}

func decodeError(codec string, v any, err error) error {
	return &FormatError{Op: "decode", Codec: codec, Type: fmt.Sprintf("%T", v), Err: err}
}

// ErrTrailingData is the cause of a decode FormatError when the input holds
// more than one JSON value.
var ErrTrailingData = errors.New("invalid data after top-level value")

// checkEOF fails unless only whitespace follows the decoded value. buffered
// is what the decoder read ahead of its position, r the unread input.
// Read errors from r are returned as is.
func checkEOF(codec string, v any, buffered, r io.Reader) error {
	br := bufio.NewReader(io.MultiReader(buffered, r))
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
		default:
			return decodeError(codec, v, ErrTrailingData)
		}
	}
}
