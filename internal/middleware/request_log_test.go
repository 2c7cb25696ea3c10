package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-ledger/internal/platform/logger"
)

func TestRequestLog_WritesStatusAndCaller(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Output: &buf})

	h := AuthContext(nil)(RequestLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})))

	req := httptest.NewRequest(http.MethodPost, "/battles", nil)
	req.Header.Set(DebugUserHeader, "user-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if line["level"] != "warn" || line["status"] != float64(http.StatusForbidden) {
		t.Fatalf("unexpected log line: %v", line)
	}
	if line["caller"] != "user-1" || line["path"] != "/battles" {
		t.Fatalf("missing request fields: %v", line)
	}
}

func TestRequestLog_DefaultsStatusWhenNothingWritten(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Output: &buf})

	RequestLog(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json line: %v", err)
	}
	if line["status"] != float64(http.StatusOK) || line["level"] != "debug" {
		t.Fatalf("unexpected log line: %v", line)
	}
}
