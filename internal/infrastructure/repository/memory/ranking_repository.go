package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/statline/gridiron/internal/domain/ranking"
)

type RankingRepository struct {
	mu      sync.RWMutex
	sets    map[string]ranking.Set
	entries map[string][]ranking.Entry
}

func NewRankingRepository() *RankingRepository {
	return &RankingRepository{
		sets:    make(map[string]ranking.Set),
		entries: make(map[string][]ranking.Entry),
	}
}

func (r *RankingRepository) CreateSet(_ context.Context, set ranking.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sets[set.ID] = set

	return nil
}

func (r *RankingRepository) GetSet(_ context.Context, id string) (ranking.Set, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[id]
	return set, ok, nil
}

func (r *RankingRepository) ListSetsByUser(_ context.Context, userID string) ([]ranking.Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ranking.Set, 0)
	for _, set := range r.sets {
		if set.UserID == userID {
			out = append(out, set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *RankingRepository) RenameSet(_ context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[id]
	if !ok {
		return nil
	}
	set.Name = name
	set.UpdatedAt = time.Now().UTC()
	r.sets[id] = set

	return nil
}

func (r *RankingRepository) DeleteSet(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sets, id)
	delete(r.entries, id)

	return nil
}

func (r *RankingRepository) ReplaceEntries(_ context.Context, setID string, entries []ranking.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]ranking.Entry, len(entries))
	copy(copied, entries)
	r.entries[setID] = copied

	return nil
}

func (r *RankingRepository) ListEntries(_ context.Context, setID string) ([]ranking.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[setID]
	out := make([]ranking.Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })

	return out, nil
}
