package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/statline/gridiron/internal/domain/player"
)

type PlayerRepository struct {
	mu          sync.RWMutex
	players     map[string]player.Player
	bySleeperID map[string]string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	repo := &PlayerRepository{
		players:     make(map[string]player.Player, len(players)),
		bySleeperID: make(map[string]string, len(players)),
	}
	for _, p := range players {
		repo.players[p.ID] = p
		repo.bySleeperID[p.SleeperID] = p.ID
	}

	return repo
}

func (r *PlayerRepository) UpsertMany(_ context.Context, items []player.Player) (player.UpsertOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	outcome := player.UpsertOutcome{}
	for _, item := range items {
		if existing, ok := r.players[item.ID]; ok {
			if item.EspnID == "" {
				item.EspnID = existing.EspnID
			}
			outcome.Updated++
		} else {
			outcome.Added++
		}
		r.players[item.ID] = item
		r.bySleeperID[item.SleeperID] = item.ID
	}

	return outcome, nil
}

func (r *PlayerRepository) List(_ context.Context, filter player.Filter) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, p := range r.players {
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		if filter.Team != "" && !strings.EqualFold(p.Team, filter.Team) {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	return p, ok, nil
}

func (r *PlayerRepository) GetBySleeperIDs(_ context.Context, sleeperIDs []string) (map[string]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]player.Player, len(sleeperIDs))
	for _, sleeperID := range sleeperIDs {
		id, ok := r.bySleeperID[sleeperID]
		if !ok {
			continue
		}
		out[sleeperID] = r.players[id]
	}

	return out, nil
}

func (r *PlayerRepository) ListMissingEspnID(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, p := range r.players {
		if p.EspnID == "" && p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *PlayerRepository) SetEspnID(_ context.Context, playerID, espnID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return nil
	}
	p.EspnID = espnID
	r.players[playerID] = p

	return nil
}

func (r *PlayerRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.players), nil
}
