package vectordb

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotReady is returned when an operation runs before Init succeeded.
var ErrNotReady = errors.New("vectordb: store not initialized")

// StoreError wraps a backend failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("vectordb %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// VectorStore defines the interface for storing and searching documents
// by embedding vector.
type VectorStore interface {
	// Init connects to the backend and creates the collection if it does
	// not exist yet. Idempotent across restarts.
	Init(ctx context.Context) error

	// Upsert replaces-or-inserts points by id, returning only after the
	// backend acknowledges durability, so an immediately following
	// Search observes the write.
	Upsert(ctx context.Context, points []Point) error

	// Search returns up to limit results ordered by descending score.
	// Results below scoreThreshold (when > 0) are excluded.
	Search(ctx context.Context, vector []float32, limit int, filter *Filter, scoreThreshold float32) ([]SearchResult, error)

	// GetByID returns the document with the given id, or nil (not an
	// error) when absent.
	GetByID(ctx context.Context, id string) (*Document, error)

	// DeleteByID removes a point; deleting a missing id is not an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByFilter removes every point matching filter.
	DeleteByFilter(ctx context.Context, filter *Filter) error

	// Count returns the exact number of stored points, optionally
	// restricted by filter.
	Count(ctx context.Context, filter *Filter) (uint64, error)

	// Stats reports collection-level statistics.
	Stats(ctx context.Context) (*CollectionStats, error)

	// Ready reports whether Init has completed successfully.
	Ready() bool
}
