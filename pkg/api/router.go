// Package api provides the HTTP control plane and stream endpoint.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jukecast/jukecast/internal/logger"
	"github.com/jukecast/jukecast/pkg/api/handlers"
	"github.com/jukecast/jukecast/pkg/metrics"
	"github.com/jukecast/jukecast/pkg/registry"
	"github.com/jukecast/jukecast/pkg/stream"
)

// RouterConfig carries the dependencies the router wires into handlers.
type RouterConfig struct {
	Registry    *registry.Registry
	Streamer    *stream.Streamer
	LibraryRoot string
	ContentType string

	// QueueMetrics may be nil to disable instrumentation.
	QueueMetrics metrics.QueueMetrics

	// PromRegistry, when non-nil, exposes GET /metrics.
	PromRegistry *prometheus.Registry
}

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	// No timeout middleware: stream responses are long-lived by design and
	// must not be cut off by a blanket request deadline.

	healthHandler := handlers.NewHealthHandler(cfg.Registry, cfg.LibraryRoot)
	queueHandler := handlers.NewQueueHandler(cfg.Registry, cfg.QueueMetrics)
	streamHandler := handlers.NewStreamHandler(cfg.Registry, cfg.Streamer, cfg.ContentType)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/ready", healthHandler.Ready)

	if cfg.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			cfg.PromRegistry,
			promhttp.HandlerOpts{},
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/queues", func(r chi.Router) {
			r.Get("/", queueHandler.List)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", queueHandler.Info)
				r.Delete("/", queueHandler.Delete)

				r.Post("/items", queueHandler.AddItems)
				r.Delete("/items/{index}", queueHandler.RemoveItem)
				r.Post("/clear", queueHandler.Clear)
				r.Post("/reorder", queueHandler.Reorder)
			})
		})
	})

	r.Get("/stream/{name}", streamHandler.Stream)

	return r
}

// requestLogger logs each request on completion. Probe endpoints log at debug
// so health checks don't flood the log.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logFn := logger.Info
		if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
			logFn = logger.Debug
		}

		logFn("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
