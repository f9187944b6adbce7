package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/devconnect/internal/app/system/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/posts/{id}", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/posts/"+id, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("expected 2 counted requests, got %v", got)
	}
}

func TestMiddleware_DefaultStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("API running"))
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/", "200")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("expected 1 counted request, got %v", got)
	}
}

func TestHandler_ExposesCollectors(t *testing.T) {
	metrics.GitHubRequestsTotal.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "devconnect_github_requests_total") {
		t.Error("expected github counter in exposition output")
	}
}
