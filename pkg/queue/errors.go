package queue

import "errors"

// Common errors for queue operations.
var (
	// ErrEmptyFilename is returned by Add when the filename is empty.
	ErrEmptyFilename = errors.New("filename must not be empty")

	// ErrIndexOutOfRange is returned by Remove when the index does not
	// reference an existing item.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrBadPermutation is returned by Reorder when the new order is not an
	// exact permutation of the current indices.
	ErrBadPermutation = errors.New("order is not a permutation of current indices")
)
