package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
)

func TestRestyTransport(t *testing.T) {
	var gotMethod, gotBody, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Trace")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	tr := NewRestyTransport(resty.New().SetBaseURL(srv.URL))
	req, err := tr.NewRequest(context.Background(), http.MethodPut, "/items/1", strings.NewReader(`{"a":1}`))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("X-Trace", "abc")

	resp, err := tr.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated || string(body) != `{"ok":true}` {
		t.Errorf("unexpected response %d %q", resp.StatusCode, body)
	}
	if gotMethod != http.MethodPut || gotBody != `{"a":1}` || gotHeader != "abc" {
		t.Errorf("server saw %s %q %q", gotMethod, gotBody, gotHeader)
	}
}

func TestRestyTransport_Error(t *testing.T) {
	tr := NewRestyTransport(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, _ := tr.NewRequest(ctx, http.MethodGet, "http://127.0.0.1:1/", nil)
	if _, err := tr.Do(req); err == nil {
		t.Fatal("expected error")
	}
}
