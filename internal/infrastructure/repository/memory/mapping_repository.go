package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/statline/gridiron/internal/domain/mapping"
)

type MappingRepository struct {
	mu       sync.RWMutex
	entries  map[string]mapping.ReviewEntry
	bindings map[string]mapping.CustomBinding
}

func NewMappingRepository() *MappingRepository {
	return &MappingRepository{
		entries:  make(map[string]mapping.ReviewEntry),
		bindings: make(map[string]mapping.CustomBinding),
	}
}

func (r *MappingRepository) InsertMany(_ context.Context, entries []mapping.ReviewEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range entries {
		r.entries[entry.ID] = entry
	}

	return nil
}

func (r *MappingRepository) ListPending(_ context.Context, limit int) ([]mapping.ReviewEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mapping.ReviewEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *MappingRepository) GetByID(_ context.Context, id string) (mapping.ReviewEntry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	return entry, ok, nil
}

func (r *MappingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)

	return nil
}

func (r *MappingRepository) InsertCustomBinding(_ context.Context, binding mapping.CustomBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings[binding.ExternalID] = binding

	return nil
}
