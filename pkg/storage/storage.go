// Package storage defines the byte-level document store behind a cache file.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no document exists at path.
var ErrNotFound = errors.New("document not found")

// Provider reads and writes whole documents identified by a path.
type Provider interface {
	// Read returns the full document stored at path.
	Read(ctx context.Context, path string) ([]byte, error)
	// Write replaces the document stored at path.
	Write(ctx context.Context, path string, data []byte) error
}
