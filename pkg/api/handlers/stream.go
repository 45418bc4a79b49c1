package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jukecast/jukecast/internal/logger"
	"github.com/jukecast/jukecast/pkg/registry"
	"github.com/jukecast/jukecast/pkg/stream"
)

// StreamHandler serves continuous audio streams.
type StreamHandler struct {
	registry    *registry.Registry
	streamer    *stream.Streamer
	contentType string
}

// NewStreamHandler creates a stream handler. contentType is declared on every
// stream response (the server does not inspect file contents).
func NewStreamHandler(reg *registry.Registry, s *stream.Streamer, contentType string) *StreamHandler {
	return &StreamHandler{
		registry:    reg,
		streamer:    s,
		contentType: contentType,
	}
}

// Stream handles GET /stream/{name}. It snapshots the named queue and writes
// the byte-level concatenation of its files to the client, blocking until the
// snapshot is exhausted or the client goes away.
//
// Queue mutations after the snapshot is taken do not affect this response;
// the client reconnects to hear the updated queue.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	q, err := h.registry.Get(name)
	if err != nil {
		NotFound(w, fmt.Sprintf("queue %q not found", name))
		return
	}

	snap := q.Snapshot()

	w.Header().Set("Content-Type", h.contentType)
	w.Header().Set("Accept-Ranges", "none")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	// From here on the status line is sent; errors can only end the body.
	res, err := h.streamer.Stream(r.Context(), name, snap, w)
	if err != nil {
		logger.Error("stream aborted",
			"queue", name,
			"session", res.SessionID,
			"error", err,
		)
		return
	}

	logger.Info("stream session ended",
		"queue", name,
		"session", res.SessionID,
		"outcome", string(res.Outcome),
		"files", res.FilesStreamed,
		"skipped", res.FilesSkipped,
		"bytes", res.BytesWritten,
	)
}
