package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	q := New("test")

	n, err := q.Add("1.mp3")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = q.Add("2.mp3")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Duplicates are allowed
	n, err = q.Add("1.mp3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, Snapshot{"1.mp3", "2.mp3", "1.mp3"}, q.Snapshot())
}

func TestAddEmptyFilename(t *testing.T) {
	q := New("test")

	_, err := q.Add("")
	assert.ErrorIs(t, err, ErrEmptyFilename)
	assert.Equal(t, 0, q.Len())
}

func TestRemove(t *testing.T) {
	q := New("test")
	mustAdd(t, q, "a.mp3", "b.mp3", "c.mp3")

	require.NoError(t, q.Remove(1))
	assert.Equal(t, Snapshot{"a.mp3", "c.mp3"}, q.Snapshot())

	require.NoError(t, q.Remove(0))
	assert.Equal(t, Snapshot{"c.mp3"}, q.Snapshot())
}

func TestRemoveOutOfRange(t *testing.T) {
	q := New("test")
	mustAdd(t, q, "a.mp3")

	assert.ErrorIs(t, q.Remove(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, q.Remove(1), ErrIndexOutOfRange)

	// Queue unchanged on failure
	assert.Equal(t, Snapshot{"a.mp3"}, q.Snapshot())
}

func TestClear(t *testing.T) {
	q := New("test")
	mustAdd(t, q, "a.mp3", "b.mp3")

	q.Clear()
	assert.Equal(t, 0, q.Len())

	// Idempotent
	q.Clear()
	assert.Equal(t, 0, q.Len())
}

func TestReorder(t *testing.T) {
	q := New("test")
	mustAdd(t, q, "a.mp3", "b.mp3", "c.mp3")

	require.NoError(t, q.Reorder([]int{2, 0, 1}))
	assert.Equal(t, Snapshot{"c.mp3", "a.mp3", "b.mp3"}, q.Snapshot())
}

func TestReorderInvalid(t *testing.T) {
	tests := []struct {
		name  string
		order []int
	}{
		{"too short", []int{0}},
		{"too long", []int{0, 1, 2, 0}},
		{"duplicate index", []int{0, 0, 1}},
		{"out of range", []int{0, 1, 3}},
		{"negative index", []int{0, 1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New("test")
			mustAdd(t, q, "a.mp3", "b.mp3", "c.mp3")

			err := q.Reorder(tt.order)
			assert.ErrorIs(t, err, ErrBadPermutation)

			// Partial reorders are never applied
			assert.Equal(t, Snapshot{"a.mp3", "b.mp3", "c.mp3"}, q.Snapshot())
		})
	}
}

func TestReorderEmptyQueue(t *testing.T) {
	q := New("test")

	// Permutation of length 0 is valid on an empty queue
	require.NoError(t, q.Reorder(nil))
	require.NoError(t, q.Reorder([]int{}))

	// But any indices are not
	assert.ErrorIs(t, q.Reorder([]int{0}), ErrBadPermutation)
}

func TestSnapshotIsACopy(t *testing.T) {
	q := New("test")
	mustAdd(t, q, "a.mp3", "b.mp3")

	snap := q.Snapshot()

	q.Clear()
	mustAdd(t, q, "c.mp3")

	// Snapshot is unaffected by later mutation
	assert.Equal(t, Snapshot{"a.mp3", "b.mp3"}, snap)
}

func TestConcurrentAddsLoseNothing(t *testing.T) {
	const (
		goroutines = 16
		addsEach   = 100
	)

	q := New("test")

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < addsEach; i++ {
				if _, err := q.Add(fmt.Sprintf("%d-%d.mp3", g, i)); err != nil {
					t.Errorf("Add failed: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, goroutines*addsEach, q.Len())
}

func TestConcurrentMutationKeepsListContiguous(t *testing.T) {
	q := New("test")
	mustAdd(t, q, "a.mp3", "b.mp3", "c.mp3", "d.mp3")

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _ = q.Add("x.mp3")
				_ = q.Remove(0)
				snap := q.Snapshot()
				// A torn read would show up as a snapshot whose length
				// disagrees with its contents.
				for _, item := range snap {
					if item == "" {
						t.Error("snapshot contains empty item")
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, q.Len())
}

func mustAdd(t *testing.T, q *Queue, filenames ...string) {
	t.Helper()
	for _, f := range filenames {
		_, err := q.Add(f)
		require.NoError(t, err)
	}
}
