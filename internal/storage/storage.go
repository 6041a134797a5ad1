// Package storage provides request-scoped scratch file storage.
// Every uploaded clip is written to a uniquely named temp file for decoding
// and removed before the request completes, on success and failure paths
// alike. Nothing persists across requests.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for scratch file handling during a request.
type Storage interface {
	// SaveTemp saves data to a temporary file and returns the file path.
	// The name parameter is used as a hint for the filename; a unique suffix
	// keeps concurrent requests from colliding.
	SaveTemp(ctx context.Context, name string, data io.Reader) (path string, err error)

	// LoadTemp reads a temporary file and returns a reader.
	// The caller is responsible for closing the returned ReadCloser.
	LoadTemp(ctx context.Context, path string) (io.ReadCloser, error)

	// CleanupTemp removes the specified temporary files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error
}
