package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/http/perf"
)

// captureLogs routes the default logger into a buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// TestTimingMiddleware_LogsRequest verifies a fast request logs at debug with its status.
func TestTimingMiddleware_LogsRequest(t *testing.T) {
	logs := captureLogs(t)
	handler := RequestID(Timing(time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest("GET", "/missing", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	out := logs.String()
	for _, want := range []string{`"msg":"request"`, `"status":404`, `"request_id":"req-42"`, `"path":"/missing"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}

// TestTimingMiddleware_SlowRequest verifies slow requests log a warning.
func TestTimingMiddleware_SlowRequest(t *testing.T) {
	logs := captureLogs(t)
	handler := Timing(time.Millisecond, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/uploadform/submitform", nil))

	if !strings.Contains(logs.String(), `"msg":"slow_request"`) {
		t.Errorf("expected slow_request warning, got %s", logs.String())
	}
}

// TestTimingMiddleware_DefaultsStatusOK verifies handlers that never call WriteHeader log 200.
func TestTimingMiddleware_DefaultsStatusOK(t *testing.T) {
	logs := captureLogs(t)
	handler := Timing(0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	if !strings.Contains(logs.String(), `"status":200`) {
		t.Errorf("expected status 200 in log, got %s", logs.String())
	}
}

// TestTimingMiddleware_RecordsSample verifies requests reach the collector.
func TestTimingMiddleware_RecordsSample(t *testing.T) {
	captureLogs(t)
	c := perf.NewCollector(10)
	handler := Timing(time.Hour, c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	snap := c.Snapshot(time.Now().Add(-time.Minute), 5)
	if snap.Window != 1 || snap.SlowestRoutes[0].Route != "GET /health" || snap.SlowestRoutes[0].Errors != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}
