package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferLogger(level string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewWithWriter(&Config{Level: level, Format: FormatJSON}, "test-svc", buf)
	return l, buf
}

func TestNewWithWriter_JSON(t *testing.T) {
	l, buf := newBufferLogger("debug")
	l.Info("hello", Fields("k", "v"))

	out := buf.String()
	for _, want := range []string{`"service":"test-svc"`, `"message":"hello"`, `"k":"v"`, `"level":"info"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger("warn")
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug/info should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn should be written: %s", out)
	}
	if l.Enabled(zerolog.DebugLevel) {
		t.Error("debug should not be enabled at warn level")
	}
	if !l.Enabled(zerolog.ErrorLevel) {
		t.Error("error should be enabled at warn level")
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newBufferLogger("loud")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected info level, got %s", buf.String())
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l, buf := newBufferLogger("debug")
	l.WithComponent("jsonclient").WithFields(Fields("method", "GET")).WithError(errors.New("bad")).Error("failed")

	out := buf.String()
	for _, want := range []string{`"component":"jsonclient"`, `"method":"GET"`, `"error":"bad"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "svc", buf)
	l.Info("console line")
	if !strings.Contains(buf.String(), "console line") {
		t.Errorf("expected message in console output, got %q", buf.String())
	}
	if strings.Contains(buf.String(), `"message"`) {
		t.Errorf("console output should not be JSON: %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored")
	if l.Enabled(zerolog.ErrorLevel) {
		t.Error("nop logger should have nothing enabled")
	}
}

func TestGlobalLogger(t *testing.T) {
	if GetGlobalLogger() == nil {
		t.Fatal("global logger should never be nil")
	}

	l, buf := newBufferLogger("info")
	SetGlobalLogger(l)
	defer SetGlobalLogger(nil)

	WithComponent("global").Info("via global")
	if !strings.Contains(buf.String(), `"component":"global"`) {
		t.Errorf("expected global logger to be used, got %s", buf.String())
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != FormatConsole || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad level", Config{Level: "verbose", Format: FormatJSON}},
		{"bad format", Config{Level: "info", Format: "xml"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFieldsHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("unexpected fields: %v", f)
	}

	ef := ErrorFields("decode", errors.New("x"))
	if ef[FieldError] != "x" || ef["operation"] != "decode" {
		t.Errorf("unexpected error fields: %v", ef)
	}

	df := MergeWithDuration(nil, 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("unexpected duration: %v", df[FieldDuration])
	}
}
