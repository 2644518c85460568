package storage

import (
	"context"
	"io"
)

// Storage persists uploaded files under a relative path.
type Storage interface {
	// Save stores the content at path and returns the stored location.
	Save(ctx context.Context, path string, reader io.Reader) (string, error)

	// Delete removes the file at path; a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Exists checks if a file exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)
}
