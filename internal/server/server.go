// Package server is taskd, a small JSON backend for the task client. It
// stores tasks in sqlite and serves them under /tasks.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/tgienger/taskui/internal/config"
	"github.com/tgienger/taskui/internal/models"
	"golang.org/x/time/rate"
)

// Store is the persistence the handlers need. *db.DB satisfies it.
type Store interface {
	ListTasks() ([]models.Task, error)
	GetTask(id models.TaskID) (*models.Task, error)
	CreateTask(f models.FormState) (*models.Task, error)
	UpdateTask(id models.TaskID, f models.FormState) (*models.Task, error)
	DeleteTask(id models.TaskID) error
}

// Server routes task requests to a Store.
type Server struct {
	store   Store
	log     logrus.FieldLogger
	limiter *rate.Limiter
	metrics *metrics
	router  chi.Router
}

// New builds the router. Metrics are registered on reg and exposed on
// /metrics. A non-positive rate limit disables limiting.
func New(store Store, log logrus.FieldLogger, cfg config.ServerConfig, reg *prometheus.Registry) (*Server, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	s := &Server{
		store:   store,
		log:     log,
		limiter: rate.NewLimiter(limit, burst),
		metrics: m,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorJSON(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/tasks", func(r chi.Router) {
		r.Use(s.instrument)
		r.Use(s.rateLimit)
		r.Get("/", s.handleListTasks)
		r.Post("/", s.handleCreateTask)
		r.Get("/{id}", s.handleGetTask)
		r.Put("/{id}", s.handleUpdateTask)
		r.Delete("/{id}", s.handleDeleteTask)
	})

	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
