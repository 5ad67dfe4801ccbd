package store

import (
	"context"
	"fmt"

	"mytodos/internal/models"
)

// Store defines the interface for todo persistence operations.
//
// Failures are always *Error values; use errors.Is with ErrValidation,
// ErrNotFound, ErrPersistence or ErrCorruption to tell them apart.
type Store interface {
	Create(ctx context.Context, title string) (*models.Todo, error)
	GetByID(ctx context.Context, id int64) (*models.Todo, error)
	List(ctx context.Context) ([]models.Todo, error)
	Update(ctx context.Context, id int64, title string, done bool) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error

	// Lifecycle
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the store for the given backend, loading or creating its
// data at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
