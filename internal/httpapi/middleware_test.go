package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BRAHMISREE/conference-project/internal/logging"
)

func TestRateLimitExceeded(t *testing.T) {
	base := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequestID(RateLimit(base, 1, 1))

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, req.Clone(context.Background()))
	if rr1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rr1.Code)
	}

	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req.Clone(context.Background()))
	if rr2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr2.Code)
	}
	if rr2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var body map[string]any
	if err := json.Unmarshal(rr2.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == nil || body["error"] == "" {
		t.Fatalf("expected error message, got %v", body)
	}
	if body["request_id"] == nil || body["request_id"] == "" {
		t.Fatalf("expected request_id in body, got %v", body)
	}

	other := req.Clone(context.Background())
	other.RemoteAddr = "10.0.0.2:1234"
	rr3 := httptest.NewRecorder()
	handler.ServeHTTP(rr3, other)
	if rr3.Code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", rr3.Code)
	}
}

func TestLoggingEmitsStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewJSON(&buf, "debug")

	handler := RequestID(Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/log-test", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatalf("expected a log line")
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	for _, key := range []string{"time", "level", "msg", "request_id", "method", "path", "status", "duration_ms"} {
		if _, ok := entry[key]; !ok {
			t.Fatalf("missing %q in %v", key, entry)
		}
	}
	if entry["msg"] != "request_complete" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Fatalf("unexpected status %v", entry["status"])
	}
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen != "abc-123" {
		t.Fatalf("expected context id abc-123, got %q", seen)
	}
	if got := rr.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected response header abc-123, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))
	req := httptest.NewRequest(http.MethodOptions, "/v1/conferences", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
		t.Fatalf("expected Authorization in allow headers, got %q", got)
	}
}

func TestMaxBodyBytes(t *testing.T) {
	handler := MaxBodyBytes(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var form taskForm
		if err := decodeJSON(r, &form); err != nil {
			writeError(w, r, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
	}), 16)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"far too long for the limit"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := extractBearerToken("bearer abc")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if tok != "abc" {
		t.Fatalf("expected abc, got %q", tok)
	}

	for _, h := range []string{"", "Basic abc", "Bearer   "} {
		if _, err := extractBearerToken(h); err == nil {
			t.Fatalf("expected error for header %q", h)
		}
	}
}
