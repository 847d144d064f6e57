package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/statline/gridiron/internal/domain/stats"
)

type StatsRepository struct {
	mu    sync.RWMutex
	lines map[string]stats.WeeklyLine
}

func NewStatsRepository(lines []stats.WeeklyLine) *StatsRepository {
	repo := &StatsRepository{lines: make(map[string]stats.WeeklyLine, len(lines))}
	for _, line := range lines {
		repo.lines[line.Key()] = line
	}

	return repo
}

func (r *StatsRepository) UpsertMany(_ context.Context, items []stats.WeeklyLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.lines[item.Key()] = item
	}

	return nil
}

func (r *StatsRepository) ListByPlayer(_ context.Context, playerID string, limit int) ([]stats.WeeklyLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.WeeklyLine, 0)
	for _, line := range r.lines {
		if line.PlayerID == playerID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season > out[j].Season
		}
		return out[i].Week > out[j].Week
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *StatsRepository) ListByWeek(_ context.Context, season, week int) ([]stats.WeeklyLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.WeeklyLine, 0)
	for _, line := range r.lines {
		if line.Season == season && line.Week == week {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

func (r *StatsRepository) LatestWeek(_ context.Context, season int) (int, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := 0
	found := false
	for _, line := range r.lines {
		if line.Season == season && line.Week > latest {
			latest = line.Week
			found = true
		}
	}

	return latest, found, nil
}
