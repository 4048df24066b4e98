package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"bogus":   Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestZapLogger_JSONIncludesFieldsAndApp(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{
		Level:  Info,
		Format: FormatJSON,
		App:    "dog-breed-social",
		Output: zapcore.AddSync(&buf),
	})

	l.With(map[string]any{"op": "auth.login"}).Error("login failed", map[string]any{
		"user_id": "u-1",
		"err":     errors.New("boom"),
	})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "login failed" || entry["level"] != "error" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry["app"] != "dog-breed-social" || entry["op"] != "auth.login" || entry["user_id"] != "u-1" {
		t.Fatalf("missing fields: %#v", entry)
	}
	if entry["err"] != "boom" {
		t.Fatalf("expected error text, got %#v", entry["err"])
	}
}

func TestZapLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Format: FormatJSON, Output: zapcore.AddSync(&buf)})

	l.Info("hidden", nil)
	l.Warn("shown", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}
