// Package stream turns a queue snapshot into one continuous byte stream.
//
// A Streamer consumes a queue.Snapshot - never the live queue - so a session's
// content is fixed the moment it starts, no matter how the queue is mutated
// afterwards. Files are concatenated at the byte level in snapshot order;
// there is no transcoding, no gap filling and no seek support. The session
// reads each file in fixed-size chunks through the shared buffer pool and
// writes them to the destination until the snapshot is exhausted, the context
// is cancelled, or the client goes away.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jukecast/jukecast/internal/logger"
	"github.com/jukecast/jukecast/pkg/bufpool"
	"github.com/jukecast/jukecast/pkg/library"
	"github.com/jukecast/jukecast/pkg/metrics"
	"github.com/jukecast/jukecast/pkg/queue"
)

// DefaultChunkSize is the read/write unit for stream sessions (64 KiB).
const DefaultChunkSize = 64 << 10

// Outcome describes how a stream session ended.
type Outcome string

const (
	// OutcomeCompleted means the snapshot was exhausted normally.
	OutcomeCompleted Outcome = metrics.OutcomeCompleted

	// OutcomeDisconnected means a write to the client failed mid-stream.
	// This is a routine termination, not an application error.
	OutcomeDisconnected Outcome = metrics.OutcomeDisconnected

	// OutcomeCancelled means the session's context was cancelled.
	OutcomeCancelled Outcome = metrics.OutcomeCancelled

	// OutcomeAborted means the session failed on an unreadable file in
	// fail-fast mode. The only outcome that pairs with a non-nil error.
	OutcomeAborted Outcome = metrics.OutcomeAborted
)

// ErrFileUnreadable is returned in fail-fast mode when a referenced file
// cannot be opened. In the default skip mode it is never surfaced; the file
// is logged and skipped instead.
var ErrFileUnreadable = errors.New("referenced file unreadable")

// Config holds streamer configuration.
type Config struct {
	// ChunkSize is the read/write unit in bytes.
	// Default: DefaultChunkSize (64 KiB)
	ChunkSize int

	// FailFast aborts the whole stream when a referenced file cannot be
	// opened, instead of skipping it and continuing with the rest of the
	// snapshot. Default: false (skip and continue).
	FailFast bool
}

// Result describes a finished stream session.
type Result struct {
	// SessionID is the unique id assigned to this session, also used in logs.
	SessionID string

	// Outcome records how the session ended.
	Outcome Outcome

	// FilesStreamed is the number of files fully delivered.
	FilesStreamed int

	// FilesSkipped is the number of referenced files that could not be
	// opened and were skipped.
	FilesSkipped int

	// BytesWritten is the total number of bytes delivered to the client.
	BytesWritten int64
}

// Streamer produces sequential byte streams from queue snapshots.
//
// A single Streamer is shared by all sessions; it holds no per-session state.
// Safe for concurrent use.
type Streamer struct {
	source    library.Source
	pool      *bufpool.Pool
	metrics   metrics.StreamMetrics // may be nil
	chunkSize int
	failFast  bool
}

// flusher is implemented by destinations that can push buffered bytes to the
// client immediately (e.g. http.ResponseWriter).
type flusher interface {
	Flush()
}

// New creates a streamer that resolves file references through source.
// Pass nil metrics to disable instrumentation.
func New(source library.Source, cfg Config, m metrics.StreamMetrics) *Streamer {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &Streamer{
		source:    source,
		pool:      bufpool.NewPool(chunkSize),
		metrics:   m,
		chunkSize: chunkSize,
		failFast:  cfg.FailFast,
	}
}

// Stream writes the byte-level concatenation of the snapshot's files to w,
// in snapshot order, and blocks until the session ends.
//
// The returned error is nil for all routine terminations - natural
// exhaustion, client disconnect and context cancellation - with the cause
// recorded in Result.Outcome. It is non-nil only in fail-fast mode when a
// referenced file cannot be opened.
//
// Every file handle is closed before the next file is opened and on every
// termination path; repeated cancel/stream cycles do not leak descriptors.
func (s *Streamer) Stream(ctx context.Context, queueName string, snap queue.Snapshot, w io.Writer) (Result, error) {
	res := Result{
		SessionID: uuid.NewString(),
		Outcome:   OutcomeCompleted,
	}

	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordStreamStart(queueName)
		defer func() {
			s.metrics.RecordStreamEnd(queueName, string(res.Outcome), time.Since(start))
		}()
	}

	log := logger.With("queue", queueName, "session", res.SessionID)
	log.Debug("stream session started", "files", len(snap))

	buf := s.pool.Get(s.chunkSize)
	defer s.pool.Put(buf)

	for _, filename := range snap {
		select {
		case <-ctx.Done():
			res.Outcome = OutcomeCancelled
			log.Debug("stream session cancelled", "bytes", res.BytesWritten)
			return res, nil
		default:
		}

		rc, err := s.source.Open(filename)
		if err != nil {
			if s.failFast {
				res.Outcome = OutcomeAborted
				log.Warn("stream aborted on unreadable file", "file", filename, "error", err)
				return res, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, filename, err)
			}

			// One missing track must not break playback of the rest.
			res.FilesSkipped++
			if s.metrics != nil {
				s.metrics.RecordFileSkipped(queueName)
			}
			log.Warn("skipping unreadable file", "file", filename, "error", err)
			continue
		}

		outcome := s.streamFile(ctx, queueName, rc, w, buf, &res)
		_ = rc.Close()

		if outcome != OutcomeCompleted {
			res.Outcome = outcome
			log.Debug("stream session ended early",
				"outcome", string(outcome),
				"file", filename,
				"bytes", res.BytesWritten,
			)
			return res, nil
		}

		res.FilesStreamed++
		if s.metrics != nil {
			s.metrics.RecordFileStreamed(queueName)
		}
	}

	log.Debug("stream session completed",
		"files", res.FilesStreamed,
		"skipped", res.FilesSkipped,
		"bytes", res.BytesWritten,
	)
	return res, nil
}

// streamFile copies one open file to w in chunks. It reports OutcomeCompleted
// when the file is exhausted, or the early-termination outcome otherwise.
func (s *Streamer) streamFile(ctx context.Context, queueName string, r io.Reader, w io.Writer, buf []byte, res *Result) Outcome {
	f, canFlush := w.(flusher)

	for {
		select {
		case <-ctx.Done():
			return OutcomeCancelled
		default:
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return OutcomeDisconnected
			}
			res.BytesWritten += int64(n)
			if s.metrics != nil {
				s.metrics.RecordBytesStreamed(queueName, uint64(n))
			}
			if canFlush {
				f.Flush()
			}
		}

		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				// A mid-file read error ends the file like EOF: the bytes
				// delivered so far stand, the stream moves on.
				logger.Warn("read error mid-file, advancing to next",
					"queue", queueName, "session", res.SessionID, "error", readErr)
			}
			return OutcomeCompleted
		}
	}
}
