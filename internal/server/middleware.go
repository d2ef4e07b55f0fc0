package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	limited  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskd_requests_total",
			Help: "Total number of task API requests by route and status code.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskd_request_duration_seconds",
			Help:    "Task API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		limited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskd_rate_limited_total",
			Help: "Requests rejected because the API was at capacity.",
		}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration, m.limited} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *Server) requestLog(r *http.Request) logrus.FieldLogger {
	return s.log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	})
}

// logRequests writes one entry per request once it has been served.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		entry := s.requestLog(r).WithFields(logrus.Fields{
			"status":   ww.Status(),
			"bytes":    ww.BytesWritten(),
			"duration": time.Since(start).String(),
		})
		if ww.Status() >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Info("request served")
		}
	})
}

// instrument records the request count and latency under the matched route
// pattern so ids do not explode label cardinality.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		s.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
	})
}

// rateLimit rejects requests with 429 once the token bucket is empty.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.metrics.limited.Inc()
			s.requestLog(r).Warn("rate limited")
			writeErrorJSON(w, http.StatusTooManyRequests, "The API is at capacity, try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
