package codec

import (
	"io"

	"github.com/bytedance/sonic"
)

type sonicCodec struct {
	api    sonic.API
	indent string
}

// NewSonic returns a codec backed by bytedance/sonic.
func NewSonic(opts Options) Codec {
	api := sonic.Config{
		EscapeHTML:            opts.EscapeHTML,
		SortMapKeys:           opts.SortMapKeys,
		UseNumber:             opts.UseNumber,
		DisallowUnknownFields: opts.DisallowUnknownFields,
	}.Froze()
	return &sonicCodec{api: api, indent: opts.Indent}
}

func (c *sonicCodec) Name() string { return NameSonic }

func (c *sonicCodec) Encode(w io.Writer, v any) error {
	enc := c.api.NewEncoder(w)
	if c.indent != "" {
		enc.SetIndent("", c.indent)
	}
	if err := enc.Encode(v); err != nil {
		return encodeError(NameSonic, v, err)
	}
	return nil
}

func (c *sonicCodec) Decode(r io.Reader, v any) error {
	dec := c.api.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return decodeError(NameSonic, v, err)
	}
	return checkEOF(NameSonic, v, dec.Buffered(), r)
}
