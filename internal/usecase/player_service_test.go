package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/platform/cache"
)

func TestPlayerService_List_CachesReads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := &listCountingPlayerRepo{players: []player.Player{
		{ID: "slp-1", Name: "Josh Allen", Position: player.PositionQB, Active: true},
	}}
	store := cache.NewStore(time.Minute)
	svc := NewPlayerService(repo, nil, store)

	for i := 0; i < 3; i++ {
		players, err := svc.List(ctx, "QB", "", true)
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		if len(players) != 1 {
			t.Fatalf("unexpected player count: %d", len(players))
		}
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected 1 repository read for repeated identical lists, got=%d", repo.listCalls)
	}

	// A sync refresh invalidates the cached list, forcing a reread.
	markDataRefresh(ctx, store, time.Now())
	if _, err := svc.List(ctx, "QB", "", true); err != nil {
		t.Fatalf("List after refresh error: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected a repository reread after refresh, got=%d calls", repo.listCalls)
	}
}

func TestPlayerService_List_NilStoreReadsThrough(t *testing.T) {
	t.Parallel()

	repo := &listCountingPlayerRepo{players: []player.Player{{ID: "slp-1", Name: "Josh Allen", Position: player.PositionQB}}}
	svc := NewPlayerService(repo, nil, nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.List(context.Background(), "", "", false); err != nil {
			t.Fatalf("List error: %v", err)
		}
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected every list to hit the repository without a store, got=%d", repo.listCalls)
	}
}

type listCountingPlayerRepo struct {
	players   []player.Player
	listCalls int
}

func (r *listCountingPlayerRepo) UpsertMany(context.Context, []player.Player) (player.UpsertOutcome, error) {
	return player.UpsertOutcome{}, nil
}

func (r *listCountingPlayerRepo) List(context.Context, player.Filter) ([]player.Player, error) {
	r.listCalls++
	return r.players, nil
}

func (r *listCountingPlayerRepo) GetByID(context.Context, string) (player.Player, bool, error) {
	return player.Player{}, false, nil
}

func (r *listCountingPlayerRepo) GetBySleeperIDs(context.Context, []string) (map[string]player.Player, error) {
	return nil, nil
}

func (r *listCountingPlayerRepo) ListMissingEspnID(context.Context) ([]player.Player, error) {
	return nil, nil
}

func (r *listCountingPlayerRepo) SetEspnID(context.Context, string, string) error { return nil }

func (r *listCountingPlayerRepo) Count(context.Context) (int, error) { return len(r.players), nil }
