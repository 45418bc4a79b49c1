// Package library provides filesystem-backed access to the audio files a
// queue may reference.
//
// Queue items are opaque filename keys, not paths; the library is the single
// place where a key is resolved to a readable file inside the configured
// root directory. Anything that would escape the root (absolute paths, ".."
// traversal) is rejected before touching the filesystem.
package library

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Common errors for library operations.
var (
	// ErrInvalidName is returned when a filename is empty, absolute, or
	// attempts to traverse outside the library root.
	ErrInvalidName = errors.New("invalid file name")

	// ErrFileNotFound is returned when the named file does not exist or is
	// not a regular file.
	ErrFileNotFound = errors.New("file not found in library")
)

// Source resolves a filename to a readable byte source. The streamer depends
// on this interface rather than on the filesystem directly, so tests can
// substitute in-memory sources.
type Source interface {
	// Open returns a reader for the named file. The caller must close it.
	Open(name string) (io.ReadCloser, error)
}

// Library is a filesystem-backed Source rooted at a single directory.
type Library struct {
	root string
}

// Config holds configuration for the filesystem library.
type Config struct {
	// Root is the directory that contains the audio files (required).
	Root string

	// CreateDir creates the root directory if it doesn't exist.
	// Default: false
	CreateDir bool
}

// New creates a library rooted at the configured directory.
func New(cfg Config) (*Library, error) {
	if cfg.Root == "" {
		return nil, errors.New("library root is required")
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve library root: %w", err)
	}

	if cfg.CreateDir {
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, fmt.Errorf("failed to create library root: %w", err)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("library root not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.New("library root is not a directory")
	}

	return &Library{root: root}, nil
}

// NewWithRoot creates a library with default configuration.
func NewWithRoot(root string) (*Library, error) {
	return New(Config{Root: root})
}

// Root returns the absolute library root directory.
func (l *Library) Root() string {
	return l.root
}

// Open resolves name inside the library root and returns a reader for it.
//
// Returns ErrInvalidName for names that are empty, absolute, or would escape
// the root, and ErrFileNotFound when no regular file exists under the name.
func (l *Library) Open(name string) (io.ReadCloser, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, name)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, err
	}
	return f, nil
}

// resolve maps a filename key to an absolute path inside the root.
func (l *Library) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s is absolute", ErrInvalidName, name)
	}

	// Keys use forward slashes as separators regardless of platform.
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes the library root", ErrInvalidName, name)
	}

	return filepath.Join(l.root, cleaned), nil
}
