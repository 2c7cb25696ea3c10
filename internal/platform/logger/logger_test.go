package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		" INFO ":  Info,
		"":        Info,
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

func TestJSONLogger_MergesFieldsAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "pet-ledger", Output: &buf})

	l.Debug("hidden", nil)
	l.With(map[string]any{"pet_id": 7}).Warn("battle rejected", map[string]any{
		"reason": errors.New("cooldown active"),
		"":       "ignored",
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (debug filtered), got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "battle rejected" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry["app"] != "pet-ledger" {
		t.Fatalf("expected app field, got %#v", entry["app"])
	}
	if entry["pet_id"] != float64(7) {
		t.Fatalf("expected pet_id=7, got %#v", entry["pet_id"])
	}
	if entry["reason"] != "cooldown active" {
		t.Fatalf("expected error field, got %#v", entry["reason"])
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.With(map[string]any{"a": 1}).Error("x", nil)
}
