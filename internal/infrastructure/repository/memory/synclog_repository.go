package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/statline/gridiron/internal/domain/synclog"
)

type SyncLogRepository struct {
	mu   sync.RWMutex
	runs []synclog.Run
}

func NewSyncLogRepository() *SyncLogRepository {
	return &SyncLogRepository{}
}

func (r *SyncLogRepository) Insert(_ context.Context, run synclog.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs = append(r.runs, run)

	return nil
}

func (r *SyncLogRepository) ListRecent(_ context.Context, limit int) ([]synclog.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]synclog.Run, len(r.runs))
	copy(out, r.runs)
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
