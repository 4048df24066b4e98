// Package metrics expone métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	analyses  *prometheus.CounterVec
	analyzeMs prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dogbreed_http_requests_total",
			Help: "Requests HTTP por ruta, método y status",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dogbreed_http_request_duration_seconds",
			Help:    "Latencia de requests HTTP por ruta",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dogbreed_identify_analyses_total",
			Help: "Análisis de imágenes por resultado",
		}, []string{"outcome"}),
		analyzeMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dogbreed_identify_analysis_duration_seconds",
			Help:    "Duración de upload + clasificación + persistencia",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.requests, c.latency, c.analyses, c.analyzeMs)
	return c
}

// RecordAnalysis implementa identify.Recorder.
func (c *Collector) RecordAnalysis(outcome string, d time.Duration) {
	c.analyses.WithLabelValues(outcome).Inc()
	c.analyzeMs.Observe(d.Seconds())
}

// Middleware etiqueta por patrón de ruta chi (no por path crudo) para acotar cardinalidad.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler sirve /metrics para el registry dado.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
