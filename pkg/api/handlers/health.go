package handlers

import (
	"net/http"
	"os"

	"github.com/jukecast/jukecast/pkg/registry"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	registry    *registry.Registry
	libraryRoot string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(reg *registry.Registry, libraryRoot string) *HealthHandler {
	return &HealthHandler{
		registry:    reg,
		libraryRoot: libraryRoot,
	}
}

// HealthResponse is the body returned by the health endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Queues int    `json:"queues"`
}

// Health handles GET /health. It reports liveness: the process is up and
// serving requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, HealthResponse{
		Status: "ok",
		Queues: h.registry.Count(),
	})
}

// Ready handles GET /health/ready. It additionally verifies the library root
// is reachable, since no stream can deliver bytes without it.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	info, err := os.Stat(h.libraryRoot)
	if err != nil || !info.IsDir() {
		WriteProblem(w, http.StatusServiceUnavailable, "Service Unavailable",
			"library root is not accessible")
		return
	}

	WriteJSONOK(w, HealthResponse{
		Status: "ready",
		Queues: h.registry.Count(),
	})
}
