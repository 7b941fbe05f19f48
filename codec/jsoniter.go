package codec

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

type jsoniterCodec struct {
	api    jsoniter.API
	indent string
}

// NewJSONIter returns a codec backed by json-iterator/go.
func NewJSONIter(opts Options) Codec {
	api := jsoniter.Config{
		EscapeHTML:             opts.EscapeHTML,
		SortMapKeys:            opts.SortMapKeys,
		UseNumber:              opts.UseNumber,
		DisallowUnknownFields:  opts.DisallowUnknownFields,
		ValidateJsonRawMessage: true,
	}.Froze()
	return &jsoniterCodec{api: api, indent: opts.Indent}
}

func (c *jsoniterCodec) Name() string { return NameJSONIter }

func (c *jsoniterCodec) Encode(w io.Writer, v any) error {
	enc := c.api.NewEncoder(w)
	if c.indent != "" {
		enc.SetIndent("", c.indent)
	}
	if err := enc.Encode(v); err != nil {
		return encodeError(NameJSONIter, v, err)
	}
	return nil
}

func (c *jsoniterCodec) Decode(r io.Reader, v any) error {
	dec := c.api.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return decodeError(NameJSONIter, v, err)
	}
	return checkEOF(NameJSONIter, v, dec.Buffered(), r)
}
