// Package jsonclient sends JSON requests over an injected HTTP transport and
// decodes JSON responses into typed results.
//
// Each call serializes an optional payload, performs one exchange, checks
// that the status is in the 2xx range and deserializes the body. Encoding,
// status and decoding failures are reported as *Error; failures of the
// transport itself are returned unchanged.
//
//	adapter, _ := httpclient.New(httpclient.Config{BaseURL: "https://api.example.com"})
//	client := jsonclient.New(adapter)
//	person, err := jsonclient.Get[Person](ctx, client, "people/42")
package jsonclient
