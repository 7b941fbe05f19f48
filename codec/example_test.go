package codec_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/kbukum/jsonkit/codec"
)

func Example() {
	type release struct {
		Service string `json:"service"`
		Version string `json:"version"`
	}

	c := codec.NewStd(codec.DefaultOptions())

	buf := &bytes.Buffer{}
	if err := c.Encode(buf, release{Service: "billing", Version: "1.4.0"}); err != nil {
		fmt.Println("encode error:", err)
		return
	}
	fmt.Println(strings.TrimSpace(buf.String()))

	var decoded release
	if err := c.Decode(buf, &decoded); err != nil {
		fmt.Println("decode error:", err)
		return
	}
	fmt.Println(decoded.Version)

	// Output:
	// {"service":"billing","version":"1.4.0"}
	// 1.4.0
}

func ExampleFormatError() {
	var out struct {
		Age int `json:"age"`
	}
	err := codec.NewStd(codec.DefaultOptions()).Decode(strings.NewReader(`{"age":"old"}`), &out)

	var fe *codec.FormatError
	fmt.Println(errors.As(err, &fe), fe.Op)

	// Output:
	// true decode
}
