package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// RestyTransport sends requests through a go-resty client. It satisfies the
// same contract as Adapter: the response is returned with its body unread.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport wraps c. A nil client selects resty.New().
func NewRestyTransport(c *resty.Client) *RestyTransport {
	if c == nil {
		c = resty.New()
	}
	return &RestyTransport{client: c}
}

// Client returns the wrapped resty client.
func (t *RestyTransport) Client() *resty.Client {
	return t.client
}

// NewRequest builds a request for path resolved against the client's base URL.
func (t *RestyTransport) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := path
	if base := t.client.BaseURL; base != "" && !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	return req, nil
}

// Do executes req through resty without parsing the response.
func (t *RestyTransport) Do(req *http.Request) (*http.Response, error) {
	r := t.client.R().
		SetContext(req.Context()).
		SetDoNotParseResponse(true)
	r.Header = req.Header.Clone()
	if req.Body != nil && req.Body != http.NoBody {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL.String())
	if err != nil {
		if resp != nil && resp.RawResponse != nil {
			_ = resp.RawResponse.Body.Close()
		}
		return nil, err
	}
	return resp.RawResponse, nil
}
