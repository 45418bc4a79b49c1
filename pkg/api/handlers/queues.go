package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jukecast/jukecast/internal/logger"
	"github.com/jukecast/jukecast/pkg/metrics"
	"github.com/jukecast/jukecast/pkg/queue"
	"github.com/jukecast/jukecast/pkg/registry"
)

// QueueHandler serves queue management endpoints.
type QueueHandler struct {
	registry *registry.Registry
	metrics  metrics.QueueMetrics // may be nil
}

// NewQueueHandler creates a queue handler.
// Pass nil metrics to disable instrumentation.
func NewQueueHandler(reg *registry.Registry, m metrics.QueueMetrics) *QueueHandler {
	return &QueueHandler{
		registry: reg,
		metrics:  m,
	}
}

// AddItemsRequest is the body for POST /api/v1/queues/{name}/items.
type AddItemsRequest struct {
	Items []string `json:"items"`
}

// ReorderRequest is the body for POST /api/v1/queues/{name}/reorder.
type ReorderRequest struct {
	Order []int `json:"order"`
}

// ListResponse is the body for GET /api/v1/queues.
type ListResponse struct {
	Queues []registry.QueueSummary `json:"queues"`
	Count  int                     `json:"count"`
}

func (h *QueueHandler) record(op string, success bool) {
	if h.metrics != nil {
		h.metrics.RecordOperation(op, success)
		h.metrics.SetQueueCount(h.registry.Count())
	}
}

// List handles GET /api/v1/queues.
func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	infos := h.registry.List()
	WriteJSONOK(w, ListResponse{Queues: infos, Count: len(infos)})
}

// Info handles GET /api/v1/queues/{name}. The response includes the queue's
// full item list.
func (h *QueueHandler) Info(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	info, err := h.registry.Info(name)
	if err != nil {
		NotFound(w, fmt.Sprintf("queue %q not found", name))
		return
	}

	WriteJSONOK(w, info)
}

// Delete handles DELETE /api/v1/queues/{name}. Sessions streaming a snapshot
// of the deleted queue are unaffected and run to completion.
func (h *QueueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if !h.registry.Delete(name) {
		h.record("delete", false)
		NotFound(w, fmt.Sprintf("queue %q not found", name))
		return
	}

	h.record("delete", true)
	logger.Info("queue deleted", "queue", name)
	WriteNoContent(w)
}

// AddItems handles POST /api/v1/queues/{name}/items. The queue is created if
// it does not exist yet; this is the only operation that creates queues.
//
// All filenames are validated before any is added, so a bad entry leaves the
// queue unchanged rather than partially extended.
func (h *QueueHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req AddItemsRequest
	if !decodeJSONBody(w, r, &req) {
		h.record("add", false)
		return
	}

	if len(req.Items) == 0 {
		h.record("add", false)
		BadRequest(w, "items must not be empty")
		return
	}
	for i, item := range req.Items {
		if item == "" {
			h.record("add", false)
			BadRequest(w, fmt.Sprintf("items[%d] must not be empty", i))
			return
		}
	}

	q := h.registry.GetOrCreate(name)
	for _, item := range req.Items {
		if _, err := q.Add(item); err != nil {
			// Unreachable after pre-validation, but keep the mapping honest.
			h.record("add", false)
			BadRequest(w, err.Error())
			return
		}
	}

	h.record("add", true)
	logger.Info("items added", "queue", name, "count", len(req.Items), "length", q.Len())
	WriteJSONOK(w, registry.QueueSummary{
		Name:   q.Name(),
		Length: q.Len(),
	})
}

// RemoveItem handles DELETE /api/v1/queues/{name}/items/{index}.
func (h *QueueHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.record("remove", false)
		BadRequest(w, "index must be an integer")
		return
	}

	q, err := h.registry.Get(name)
	if err != nil {
		h.record("remove", false)
		NotFound(w, fmt.Sprintf("queue %q not found", name))
		return
	}

	if err := q.Remove(index); err != nil {
		h.record("remove", false)
		if errors.Is(err, queue.ErrIndexOutOfRange) {
			UnprocessableEntity(w, err.Error())
			return
		}
		InternalServerError(w, err.Error())
		return
	}

	h.record("remove", true)
	logger.Info("item removed", "queue", name, "index", index, "length", q.Len())
	WriteNoContent(w)
}

// Clear handles POST /api/v1/queues/{name}/clear.
func (h *QueueHandler) Clear(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	q, err := h.registry.Get(name)
	if err != nil {
		h.record("clear", false)
		NotFound(w, fmt.Sprintf("queue %q not found", name))
		return
	}

	q.Clear()
	h.record("clear", true)
	logger.Info("queue cleared", "queue", name)
	WriteNoContent(w)
}

// Reorder handles POST /api/v1/queues/{name}/reorder. The order slice must be
// a permutation of the queue's current indices; anything else is rejected and
// the queue is left unchanged.
func (h *QueueHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req ReorderRequest
	if !decodeJSONBody(w, r, &req) {
		h.record("reorder", false)
		return
	}

	q, err := h.registry.Get(name)
	if err != nil {
		h.record("reorder", false)
		NotFound(w, fmt.Sprintf("queue %q not found", name))
		return
	}

	if err := q.Reorder(req.Order); err != nil {
		h.record("reorder", false)
		if errors.Is(err, queue.ErrBadPermutation) {
			UnprocessableEntity(w, err.Error())
			return
		}
		InternalServerError(w, err.Error())
		return
	}

	h.record("reorder", true)
	logger.Info("queue reordered", "queue", name, "length", q.Len())
	WriteJSONOK(w, registry.QueueInfo{
		Name:   q.Name(),
		Items:  q.Snapshot(),
		Length: q.Len(),
	})
}
