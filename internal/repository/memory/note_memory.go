// Package memory keeps note metadata in process memory. It backs local runs
// (METADATA_BACKEND=memory) and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"noteapi/internal/model"
	"noteapi/internal/repository"
)

// NoteMemory is a map-backed repository.NoteRepository. It is safe for concurrent use.
type NoteMemory struct {
	mu    sync.RWMutex
	items map[model.NoteKey]model.NoteRecord
}

// NewNoteMemory returns an empty repository.
func NewNoteMemory() *NoteMemory {
	return &NoteMemory{items: map[model.NoteKey]model.NoteRecord{}}
}

var _ repository.NoteRepository = (*NoteMemory)(nil)

func (r *NoteMemory) Put(_ context.Context, rec *model.NoteRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[rec.Key()] = *rec
	return nil
}

func (r *NoteMemory) FindByKey(_ context.Context, key model.NoteKey) (*model.NoteRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (r *NoteMemory) List(_ context.Context) ([]model.NoteRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.NoteRecord, 0, len(r.items))
	for _, rec := range r.items {
		items = append(items, rec)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt > items[j].CreatedAt
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (r *NoteMemory) Delete(_ context.Context, key model.NoteKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, key)
	return nil
}

func (r *NoteMemory) PingContext(context.Context) error { return nil }

// Len reports how many records are stored.
func (r *NoteMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
