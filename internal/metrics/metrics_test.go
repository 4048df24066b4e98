package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/api/breeds/{breedID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/breeds/"+id, nil))
	}

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `dogbreed_http_requests_total{method="GET",route="/api/breeds/{breedID}",status="404"} 3`
	if !strings.Contains(rr.Body.String(), want) {
		t.Fatalf("expected %q in output:\n%s", want, rr.Body.String())
	}
}

func TestRecordAnalysis_AndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAnalysis("ok", 20*time.Millisecond)
	c.RecordAnalysis("invalid", time.Millisecond)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), `dogbreed_identify_analyses_total{outcome="ok"} 1`) {
		t.Fatalf("expected analyses counter in output:\n%s", rr.Body.String())
	}
}
