package config

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"
)

type httpSection struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Tags    []string      `mapstructure:"tags"`
}

type codecSection struct {
	Name    string `mapstructure:"name"`
	Options struct {
		UseNumber bool `mapstructure:"use_number"`
	} `mapstructure:",squash"`
}

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	HTTP          httpSection  `mapstructure:"http"`
	Codec         codecSection `mapstructure:"codec"`
	Secret        string       `mapstructure:"-"`
	applied       bool
}

func (c *testConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.applied = true
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestStructKeys(t *testing.T) {
	keys := structKeys(reflect.TypeOf(&testConfig{}), "")
	want := []string{
		"name", "environment",
		"logging.level", "logging.format", "logging.output", "logging.no_color", "logging.timestamp", "logging.caller",
		"http.base_url", "http.timeout", "http.tags",
		"codec.name", "codec.use_number",
	}
	for _, k := range want {
		if !slices.Contains(keys, k) {
			t.Errorf("missing key %q in %v", k, keys)
		}
	}
	if slices.Contains(keys, "secret") {
		t.Error("fields tagged - must be skipped")
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: jsonfetch
environment: staging
http:
  base_url: http://localhost:8080
  timeout: 5s
  tags: [a, b]
codec:
  name: goccy
  use_number: true
`)

	var cfg testConfig
	if err := Load("jsonfetch", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none"))); err == nil {
		t.Fatal("expected error for a missing explicit env file")
	}

	cfg = testConfig{}
	if err := Load("jsonfetch", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "jsonfetch" || cfg.Environment != "staging" {
		t.Errorf("service section = %+v", cfg.ServiceConfig)
	}
	if cfg.HTTP.BaseURL != "http://localhost:8080" || cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("http section = %+v", cfg.HTTP)
	}
	if !slices.Equal(cfg.HTTP.Tags, []string{"a", "b"}) {
		t.Errorf("tags = %v", cfg.HTTP.Tags)
	}
	if cfg.Codec.Name != "goccy" || !cfg.Codec.Options.UseNumber {
		t.Errorf("codec section = %+v", cfg.Codec)
	}
	if !cfg.applied || cfg.Logging.Level != "info" {
		t.Error("ApplyDefaults was not called")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: jsonfetch\nhttp:\n  base_url: http://from-file\n")
	envPath := writeFile(t, dir, ".env", "JSONFETCH_HTTP_TIMEOUT=750ms\n")
	t.Setenv("JSONFETCH_HTTP_BASE_URL", "http://from-env")
	t.Setenv("JSONFETCH_CODEC_NAME", "std")
	t.Cleanup(func() { _ = os.Unsetenv("JSONFETCH_HTTP_TIMEOUT") })

	var cfg testConfig
	if err := Load("jsonfetch", &cfg, WithConfigFile(path), WithEnvFile(envPath)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.BaseURL != "http://from-env" {
		t.Errorf("base_url = %q, want env override", cfg.HTTP.BaseURL)
	}
	if cfg.HTTP.Timeout != 750*time.Millisecond {
		t.Errorf("timeout = %v, want value from .env", cfg.HTTP.Timeout)
	}
	if cfg.Codec.Name != "std" {
		t.Errorf("codec.name = %q", cfg.Codec.Name)
	}
}

func TestLoad_Validate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "environment: qa\n")

	var cfg testConfig
	err := Load("jsonfetch", &cfg, WithConfigFile(path))
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type fakeFS struct {
	files  map[string]bool
	loaded []string
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }

func (f *fakeFS) LoadEnv(path string) error {
	f.loaded = append(f.loaded, path)
	return nil
}

func TestResolver(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{
		"./config/jsonfetch.yml": true,
		"./config.yml":           true,
		"./.env":                 true,
	}}
	r := &Resolver{FileSystem: fs}

	got := r.ResolveFiles("jsonfetch", LoaderConfig{})
	if got.ConfigFile != "./config/jsonfetch.yml" || got.EnvFile != "./.env" {
		t.Errorf("resolved = %+v", got)
	}

	got = r.ResolveFiles("jsonfetch", LoaderConfig{ConfigFile: "custom.yml"})
	if got.ConfigFile != "custom.yml" {
		t.Errorf("explicit config file ignored: %+v", got)
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logging.ApplyDefaults()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
