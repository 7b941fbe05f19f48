// Package codec provides the JSON codecs used by jsonclient.
//
// A Codec encodes values to a stream and decodes a stream into a value.
// Every failure reported by the underlying library is wrapped in a
// *FormatError so callers can tell malformed or incompatible JSON apart
// from I/O problems with a single errors.As check.
//
// Four implementations are available, each configured from the same
// Options bundle:
//
//   - NewSonic: bytedance/sonic (the default)
//   - NewGoccy: goccy/go-json
//   - NewJSONIter: json-iterator/go
//   - NewStd: encoding/json
//
// Codecs are immutable once built and safe for concurrent use. Default
// returns a process-wide instance built from DefaultOptions.
//
//	c := codec.Default()
//	var buf bytes.Buffer
//	if err := c.Encode(&buf, payload); err != nil {
//	    var fe *codec.FormatError
//	    errors.As(err, &fe)
//	}
package codec
