// Package registry owns the set of named queues.
//
// The registry guards only the existence of queue instances (the name -> queue
// mapping); each queue guards its own contents. If an operation ever needs
// both locks, the registry lock is acquired first - this strict ordering keeps
// deadlock structurally impossible as operations grow. In the steady state
// (content mutation rather than creation or deletion) only the relevant
// queue's lock is touched, so operations on different queues never contend.
package registry

import (
	"errors"
	"sync"

	"github.com/jukecast/jukecast/pkg/queue"
)

// ErrQueueNotFound is returned when an operation references a queue name that
// is not registered.
var ErrQueueNotFound = errors.New("queue not found")

// Registry manages all named queues. It provides thread-safe creation,
// lookup and deletion of queue instances.
//
// A queue has no existence outside the registry that created it; at most one
// queue instance exists per name at any time. Queues are held in memory only
// and are not persisted across restarts.
//
// Construct registries explicitly with NewRegistry and pass them by handle;
// there is no process-wide singleton, so tests can build independent
// registries per case.
type Registry struct {
	mu     sync.RWMutex
	queues map[string]*queue.Queue
}

// QueueInfo describes one registered queue in full, items included. An empty
// queue reports items as an empty list, never a missing field.
type QueueInfo struct {
	Name   string   `json:"name"`
	Items  []string `json:"items"`
	Length int      `json:"length"`
}

// QueueSummary describes one registered queue without its items.
type QueueSummary struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		queues: make(map[string]*queue.Queue),
	}
}

// GetOrCreate returns the queue registered under name, atomically creating
// and registering a new empty queue if absent. It never returns two different
// queue instances for the same name at overlapping times.
func (r *Registry) GetOrCreate(name string) *queue.Queue {
	r.mu.RLock()
	q, exists := r.queues[name]
	r.mu.RUnlock()
	if exists {
		return q
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under the write lock: another caller may have created the
	// queue between the two lock acquisitions.
	if q, exists := r.queues[name]; exists {
		return q
	}

	q = queue.New(name)
	r.queues[name] = q
	return q
}

// Get returns the queue registered under name, or ErrQueueNotFound.
// Get never creates a queue.
func (r *Registry) Get(name string) (*queue.Queue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, exists := r.queues[name]
	if !exists {
		return nil, ErrQueueNotFound
	}
	return q, nil
}

// Delete removes the registry's reference to the named queue and reports
// whether a queue existed.
//
// Stream sessions already holding a snapshot of the deleted queue are
// unaffected: snapshots are value copies, not live references, so in-flight
// streams run to completion normally.
func (r *Registry) Delete(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.queues[name]; !exists {
		return false
	}
	delete(r.queues, name)
	return true
}

// List returns name and length for every registered queue, as an independent
// snapshot of the registry's state. The returned slice is a copy and safe to
// modify.
func (r *Registry) List() []QueueSummary {
	r.mu.RLock()
	queues := make([]*queue.Queue, 0, len(r.queues))
	for _, q := range r.queues {
		queues = append(queues, q)
	}
	r.mu.RUnlock()

	// Queue lengths are read outside the registry lock: the registry lock
	// guards only the mapping's structure, never queue contents.
	summaries := make([]QueueSummary, 0, len(queues))
	for _, q := range queues {
		summaries = append(summaries, QueueSummary{Name: q.Name(), Length: q.Len()})
	}
	return summaries
}

// Info returns name, items and length for one queue, or ErrQueueNotFound.
// The items slice is the queue's snapshot at the time of the call.
func (r *Registry) Info(name string) (QueueInfo, error) {
	q, err := r.Get(name)
	if err != nil {
		return QueueInfo{}, err
	}

	items := q.Snapshot()
	return QueueInfo{
		Name:   q.Name(),
		Items:  items,
		Length: len(items),
	}, nil
}

// Count returns the number of registered queues.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queues)
}
