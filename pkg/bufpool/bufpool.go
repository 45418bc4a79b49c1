// Package bufpool provides a buffer pool for streaming chunk reuse.
//
// Every active stream session reads files chunk by chunk; pooling the chunk
// buffers keeps per-client allocations flat no matter how many concurrent
// listeners a queue has.
//
// # Thread Safety
//
// All operations are thread-safe via sync.Pool. Safe for concurrent use
// across multiple stream sessions.
//
// # Usage
//
//	buf := bufpool.Get(size)
//	defer bufpool.Put(buf)
//	// ... use buf ...
package bufpool

import (
	"sync"
)

// Default buffer size classes.
const (
	// DefaultSmallSize handles API payloads and small reads (4KB)
	DefaultSmallSize = 4 << 10

	// DefaultChunkSize matches the default stream chunk size (64KB)
	DefaultChunkSize = 64 << 10
)

// Pool manages byte slice pools organized by size class. It selects the
// appropriate pool based on requested size and falls back to direct
// allocation for oversized requests.
type Pool struct {
	small     sync.Pool
	chunk     sync.Pool
	smallSize int
	chunkSize int
}

// NewPool creates a buffer pool whose chunk class matches chunkSize.
// Non-positive sizes fall back to the defaults.
func NewPool(chunkSize int) *Pool {
	p := &Pool{
		smallSize: DefaultSmallSize,
		chunkSize: chunkSize,
	}
	if p.chunkSize <= 0 {
		p.chunkSize = DefaultChunkSize
	}

	p.small = sync.Pool{
		New: func() any {
			buf := make([]byte, p.smallSize)
			return &buf
		},
	}
	p.chunk = sync.Pool{
		New: func() any {
			buf := make([]byte, p.chunkSize)
			return &buf
		},
	}

	return p
}

// Get returns a byte slice of at least the requested size. The slice may be
// larger than requested so pooled buffers can be reused.
//
// The caller must call Put when finished with the buffer. Sizes larger than
// the chunk class are allocated directly and not pooled, to avoid keeping
// oversized buffers in memory indefinitely.
func (p *Pool) Get(size int) []byte {
	var bufPtr *[]byte

	switch {
	case size <= p.smallSize:
		bufPtr = p.small.Get().(*[]byte)
	case size <= p.chunkSize:
		bufPtr = p.chunk.Get().(*[]byte)
	default:
		return make([]byte, size)
	}

	buf := *bufPtr
	return buf[:size]
}

// Put returns a buffer to the pool for reuse. The buffer must have been
// obtained from Get and must not be used after Put. Oversized buffers are
// not pooled and will be GC'd normally.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}

	switch cap(buf) {
	case p.smallSize:
		fullBuf := buf[:cap(buf)]
		p.small.Put(&fullBuf)
	case p.chunkSize:
		fullBuf := buf[:cap(buf)]
		p.chunk.Put(&fullBuf)
	default:
		// Not one of ours; let the GC have it.
	}
}

// globalPool is the package-level pool with default configuration.
var globalPool = NewPool(DefaultChunkSize)

// Get returns a byte slice of at least the requested size from the global pool.
func Get(size int) []byte {
	return globalPool.Get(size)
}

// Put returns a buffer to the global pool. Always pair with Get, usually
// via defer.
func Put(buf []byte) {
	globalPool.Put(buf)
}
