package bufpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsRequestedLength(t *testing.T) {
	p := NewPool(DefaultChunkSize)

	for _, size := range []int{1, 100, DefaultSmallSize, DefaultSmallSize + 1, DefaultChunkSize} {
		buf := p.Get(size)
		assert.Len(t, buf, size)
		p.Put(buf)
	}
}

func TestGetOversizedAllocatesDirectly(t *testing.T) {
	p := NewPool(DefaultChunkSize)

	size := DefaultChunkSize * 2
	buf := p.Get(size)
	assert.Len(t, buf, size)
	assert.Equal(t, size, cap(buf))

	// Returning an oversized buffer is a no-op, not a panic
	p.Put(buf)
}

func TestPutNil(t *testing.T) {
	p := NewPool(DefaultChunkSize)
	assert.NotPanics(t, func() { p.Put(nil) })
}

func TestCustomChunkSize(t *testing.T) {
	const chunk = 16 << 10
	p := NewPool(chunk)

	buf := p.Get(chunk)
	assert.Len(t, buf, chunk)
	assert.Equal(t, chunk, cap(buf))
	p.Put(buf)
}

func TestConcurrentGetPut(t *testing.T) {
	p := NewPool(DefaultChunkSize)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				buf := p.Get(DefaultChunkSize)
				buf[0] = byte(i)
				p.Put(buf)
			}
		}()
	}
	wg.Wait()
}

func TestGlobalPool(t *testing.T) {
	buf := Get(DefaultChunkSize)
	assert.Len(t, buf, DefaultChunkSize)
	Put(buf)
}
