package repository

import (
	"context"
	"errors"

	"noteapi/internal/model"
)

// ErrNotFound is returned by FindByKey when no record matches the key.
var ErrNotFound = errors.New("note record not found")

// NoteRepository defines data access for note metadata.
// No business logic here, only persistence operations.
type NoteRepository interface {
	// Put stores rec under (CreatedAt, Name). A record already stored under the
	// same key is replaced; records of the same Name on other days are kept.
	Put(ctx context.Context, rec *model.NoteRecord) error

	// FindByKey returns the record stored under (CreatedAt, Name) or ErrNotFound.
	FindByKey(ctx context.Context, key model.NoteKey) (*model.NoteRecord, error)

	// List returns every record.
	List(ctx context.Context) ([]model.NoteRecord, error)

	// Delete removes a record. It returns nil if the record was deleted or did not exist.
	Delete(ctx context.Context, key model.NoteKey) error

	// PingContext verifies the store is reachable.
	PingContext(ctx context.Context) error
}
