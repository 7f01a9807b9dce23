package exporters

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smazurov/subjectlink/internal/metrics"
)

func TestHTTPHandler(t *testing.T) {
	handler := HTTPHandler()
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}

	metrics.IncStaticPush("http-test", "http-test-subject")
	defer metrics.IncRemoval("http-test", "http-test-subject")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	if !strings.Contains(body, "subjectlink_provider_static_pushes_total") {
		t.Error("expected subject metrics in response")
	}
}

func TestHTTPHandlerOpenMetrics(t *testing.T) {
	metrics.IncStaticPush("openmetrics-test", "openmetrics-subject")
	defer metrics.IncRemoval("openmetrics-test", "openmetrics-subject")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept", "application/openmetrics-text; version=1.0.0")
	w := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(w, req)

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/openmetrics-text") {
		t.Errorf("content type = %q, want openmetrics", ct)
	}
	if !strings.HasSuffix(strings.TrimSpace(w.Body.String()), "# EOF") {
		t.Error("openmetrics body should end with # EOF")
	}
}
