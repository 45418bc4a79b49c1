// Package queue implements the named, ordered, mutable list of audio file
// references that backs a single playlist.
//
// A Queue is safe for concurrent use. Every mutation and every snapshot
// acquires the queue's own mutex for the minimal duration needed to touch the
// in-memory list; the lock is never held across file or network I/O. Streaming
// never reads the live list directly: it works on a Snapshot, an immutable
// point-in-time copy, so an in-flight stream is fully isolated from later
// mutations.
package queue

import (
	"fmt"
	"sync"
)

// Queue is a named, ordered list of file references.
//
// Items are opaque filename strings, not filesystem paths; resolution to a
// readable file is the library's concern. Duplicates are allowed - the same
// file may appear at several positions.
//
// The zero value is not usable; create queues with New.
type Queue struct {
	name string

	mu    sync.Mutex
	items []string
}

// Snapshot is an immutable point-in-time copy of a queue's items.
//
// A Snapshot has no relationship back to the live queue: it is value data
// owned by whoever took it. Mutating the queue after a snapshot was taken has
// no effect on the snapshot.
type Snapshot []string

// New creates an empty queue with the given name.
func New(name string) *Queue {
	return &Queue{name: name}
}

// Name returns the queue's name. The name is immutable after creation.
func (q *Queue) Name() string {
	return q.name
}

// Add appends filename to the end of the queue and returns the new length.
//
// The only validation performed here is that the filename is non-empty;
// whether it resolves to a readable file is decided at stream time.
func (q *Queue) Add(filename string) (int, error) {
	if filename == "" {
		return 0, ErrEmptyFilename
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, filename)
	return len(q.items), nil
}

// Remove deletes the item at index. The queue is left unchanged on failure.
func (q *Queue) Remove(index int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.items) {
		return fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, index, len(q.items))
	}

	q.items = append(q.items[:index], q.items[index+1:]...)
	return nil
}

// Clear removes all items. Clear always succeeds and is idempotent.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = nil
}

// Reorder rearranges the queue so that position i holds the item previously
// at order[i].
//
// order must be an exact permutation of 0..len-1: every current index exactly
// once. Anything else (wrong length, duplicate, out-of-range entry) fails
// with ErrBadPermutation and leaves the queue unchanged - partial reorders
// are never applied. An empty order on an empty queue is a valid no-op.
func (q *Queue) Reorder(order []int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(order) != len(q.items) {
		return fmt.Errorf("%w: got %d indices, queue has %d items",
			ErrBadPermutation, len(order), len(q.items))
	}

	seen := make([]bool, len(q.items))
	for _, idx := range order {
		if idx < 0 || idx >= len(q.items) {
			return fmt.Errorf("%w: index %d out of range", ErrBadPermutation, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: index %d appears more than once", ErrBadPermutation, idx)
		}
		seen[idx] = true
	}

	reordered := make([]string, len(q.items))
	for i, idx := range order {
		reordered[i] = q.items[idx]
	}
	q.items = reordered
	return nil
}

// Snapshot returns an immutable copy of the current items, taken atomically
// with respect to concurrent mutation. The result is never a torn read of a
// half-mutated list.
func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	snap := make(Snapshot, len(q.items))
	copy(snap, q.items)
	return snap
}

// Len returns the current number of items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
