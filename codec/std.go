package codec

import (
	"encoding/json"
	"io"
)

type stdCodec struct {
	opts Options
}

// NewStd returns a codec backed by encoding/json. SortMapKeys is ignored:
// encoding/json always sorts map keys.
func NewStd(opts Options) Codec {
	return &stdCodec{opts: opts}
}

func (c *stdCodec) Name() string { return NameStd }

func (c *stdCodec) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(c.opts.EscapeHTML)
	if c.opts.Indent != "" {
		enc.SetIndent("", c.opts.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return encodeError(NameStd, v, err)
	}
	return nil
}

func (c *stdCodec) Decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if c.opts.UseNumber {
		dec.UseNumber()
	}
	if c.opts.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return decodeError(NameStd, v, err)
	}
	return checkEOF(NameStd, v, dec.Buffered(), r)
}
