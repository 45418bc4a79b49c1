// Package metrics defines the observability interfaces for jukecast.
//
// The interfaces are optional everywhere they appear: passing nil disables
// collection with zero overhead, so library users and tests never pay for
// instrumentation they don't want.
package metrics

import (
	"time"
)

// Stream termination outcomes.
const (
	OutcomeCompleted    = "completed"
	OutcomeDisconnected = "disconnected"
	OutcomeCancelled    = "cancelled"
	OutcomeAborted      = "aborted"
)

// StreamMetrics provides observability for stream sessions.
//
// Implementations must be safe for concurrent use; every active stream
// session reports through the same instance.
type StreamMetrics interface {
	// RecordStreamStart increments the active-stream gauge for a queue.
	RecordStreamStart(queue string)

	// RecordStreamEnd decrements the active-stream gauge and records the
	// session's outcome ("completed", "disconnected", "cancelled",
	// "aborted") and duration.
	RecordStreamEnd(queue string, outcome string, duration time.Duration)

	// RecordBytesStreamed records bytes delivered to a client.
	RecordBytesStreamed(queue string, bytes uint64)

	// RecordFileStreamed records one file fully delivered within a session.
	RecordFileStreamed(queue string)

	// RecordFileSkipped records a referenced file that could not be opened
	// and was skipped.
	RecordFileSkipped(queue string)
}

// QueueMetrics provides observability for queue mutations.
type QueueMetrics interface {
	// RecordOperation records a completed queue operation ("add", "remove",
	// "clear", "reorder", "delete") and whether it succeeded.
	RecordOperation(op string, success bool)

	// SetQueueCount updates the registered-queue gauge.
	SetQueueCount(count int)
}
