package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/jsonkit/codec"
	"github.com/kbukum/jsonkit/internal/testserver"
)

func TestCallOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		want    int
		wantErr bool
	}{
		{"none", options{}, 0, false},
		{"header and query", options{headers: []string{"X-Id: 1"}, query: []string{"page=2"}}, 2, false},
		{"bad header", options{headers: []string{"X-Id"}}, 0, true},
		{"bad query", options{query: []string{"page"}}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := callOptions(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("got %d options, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{"defaults", func(*AppConfig) {}, ""},
		{"bad codec", func(c *AppConfig) { c.Codec.Name = "yaml" }, "unknown codec"},
		{"bad sample rate", func(c *AppConfig) { c.Tracing.SampleRate = 3 }, "sample_rate"},
		{"bad metrics interval", func(c *AppConfig) { c.Metrics.Interval = -time.Second }, "metrics: interval"},
		{"metrics without endpoint", func(c *AppConfig) {
			c.Metrics.Enabled = true
			c.Metrics.Endpoint = ""
		}, "metrics: endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg AppConfig
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseData(t *testing.T) {
	const big = "12345678901234567890"
	for _, name := range []string{codec.NameSonic, codec.NameGoccy, codec.NameJSONIter, codec.NameStd} {
		t.Run(name, func(t *testing.T) {
			cfg := codec.Config{Name: name, Options: codec.DefaultOptions()}
			in, err := parseData(cfg, `{"id":`+big+`}`)
			if err != nil {
				t.Fatalf("parseData: %v", err)
			}
			m, ok := in.(map[string]any)
			if !ok {
				t.Fatalf("got %T", in)
			}
			if n, ok := m["id"].(json.Number); !ok || n.String() != big {
				t.Errorf("id = %#v, want json.Number %s", m["id"], big)
			}
		})
	}

	if in, err := parseData(codec.Config{}, ""); in != nil || err != nil {
		t.Errorf("empty data = %v, %v", in, err)
	}
	if _, err := parseData(codec.Config{}, "{"); err == nil {
		t.Error("expected error for malformed data")
	}
}

func TestRun(t *testing.T) {
	srv := testserver.New(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	content := "name: jsonfetch\nlogging:\n  level: error\nhttp:\n  base_url: " + srv.URL + "\ncodec:\n  name: goccy\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout := os.Stdout
	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = devnull
	t.Cleanup(func() {
		os.Stdout = stdout
		_ = devnull.Close()
	})

	err = run(context.Background(), options{configFile: cfgPath, method: "post", data: `{"name":"Ada","id":9007199254740993}`}, "/echo")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	last := srv.Last(t)
	if last.Method != "POST" || !strings.Contains(string(last.Body), "9007199254740993") {
		t.Errorf("unexpected request %s %q", last.Method, last.Body)
	}

	if err := run(context.Background(), options{configFile: cfgPath, method: "GET"}, "/status/500"); err == nil {
		t.Error("expected status error")
	}
}
