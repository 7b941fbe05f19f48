package codec

import (
	"io"

	gojson "github.com/goccy/go-json"
)

type goccyCodec struct {
	opts Options
}

// NewGoccy returns a codec backed by goccy/go-json.
func NewGoccy(opts Options) Codec {
	return &goccyCodec{opts: opts}
}

func (c *goccyCodec) Name() string { return NameGoccy }

func (c *goccyCodec) Encode(w io.Writer, v any) error {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(c.opts.EscapeHTML)
	if c.opts.Indent != "" {
		enc.SetIndent("", c.opts.Indent)
	}
	var encOpts []gojson.EncodeOptionFunc
	if !c.opts.SortMapKeys {
		encOpts = append(encOpts, gojson.UnorderedMap())
	}
	if err := enc.EncodeWithOption(v, encOpts...); err != nil {
		return encodeError(NameGoccy, v, err)
	}
	return nil
}

func (c *goccyCodec) Decode(r io.Reader, v any) error {
	dec := gojson.NewDecoder(r)
	if c.opts.UseNumber {
		dec.UseNumber()
	}
	if c.opts.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return decodeError(NameGoccy, v, err)
	}
	return checkEOF(NameGoccy, v, dec.Buffered(), r)
}
