package usecase

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/statline/gridiron/internal/domain/ranking"
	"github.com/statline/gridiron/internal/domain/stats"
	"github.com/statline/gridiron/internal/platform/logging"
)

func TestRankingService_CreateSet_RejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	svc := newTestRankingService(&fakeRankingRepo{}, nil)

	if _, err := svc.CreateSet(context.Background(), "user-1", "My Board", "superflex"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown format, got=%v", err)
	}
	if _, err := svc.CreateSet(context.Background(), "user-1", "   ", "ppr"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got=%v", err)
	}
}

func TestRankingService_Reorder_AssignsDenseRanks(t *testing.T) {
	t.Parallel()

	repo := &fakeRankingRepo{sets: map[string]ranking.Set{
		"set-1": {ID: "set-1", UserID: "user-1", Name: "Board", Format: "ppr"},
	}}
	svc := newTestRankingService(repo, nil)

	entries, err := svc.Reorder(context.Background(), "user-1", "set-1", []string{"p3", "p1", "p2"})
	if err != nil {
		t.Fatalf("Reorder error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got=%d", len(entries))
	}
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Fatalf("ranks must be dense from 1: %+v", entries)
		}
	}
	if entries[0].PlayerID != "p3" {
		t.Fatalf("slice order defines rank order, got=%+v", entries)
	}
}

func TestRankingService_Reorder_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	repo := &fakeRankingRepo{sets: map[string]ranking.Set{
		"set-1": {ID: "set-1", UserID: "user-1", Name: "Board", Format: "standard"},
	}}
	svc := newTestRankingService(repo, nil)

	if _, err := svc.Reorder(context.Background(), "user-1", "set-1", []string{"p1", "p1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate player, got=%v", err)
	}
}

func TestRankingService_OwnershipIsEnforced(t *testing.T) {
	t.Parallel()

	repo := &fakeRankingRepo{sets: map[string]ranking.Set{
		"set-1": {ID: "set-1", UserID: "owner", Name: "Board", Format: "standard"},
	}}
	svc := newTestRankingService(repo, nil)

	if err := svc.DeleteSet(context.Background(), "intruder", "set-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another user's set, got=%v", err)
	}
	if err := svc.RenameSet(context.Background(), "intruder", "set-1", "Stolen"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on rename, got=%v", err)
	}
	if _, err := svc.Entries(context.Background(), "intruder", "set-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on entries, got=%v", err)
	}
}

func TestRankingService_DefaultRankings_OrdersByLatestWeekPoints(t *testing.T) {
	t.Parallel()

	statsRepo := &seededStatsRepo{
		latestWeek: 4,
		lines: []stats.WeeklyLine{
			{PlayerID: "wr", Season: 2025, Week: 4, ReceivingYards: 100, ReceivingTDs: 1, Receptions: 8},
			{PlayerID: "qb", Season: 2025, Week: 4, PassingYards: 300, PassingTDs: 3},
			{PlayerID: "rb", Season: 2025, Week: 4, RushingYards: 60},
		},
	}
	svc := newTestRankingService(&fakeRankingRepo{}, statsRepo)

	rows, err := svc.DefaultRankings(context.Background(), 2025, "ppr")
	if err != nil {
		t.Fatalf("DefaultRankings error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got=%d", len(rows))
	}
	// qb: 300/25 + 3*6 = 30; wr (ppr): 100/10 + 6 + 8 = 24; rb: 6.
	if rows[0].PlayerID != "qb" || rows[1].PlayerID != "wr" || rows[2].PlayerID != "rb" {
		t.Fatalf("unexpected ordering: %+v", rows)
	}
	if rows[0].Rank != 1 || rows[2].Rank != 3 {
		t.Fatalf("ranks must be dense from 1: %+v", rows)
	}
	if rows[0].Points != 30 {
		t.Fatalf("expected 30 points for the qb, got=%v", rows[0].Points)
	}
}

func TestRankingService_DefaultRankings_EmptySeason(t *testing.T) {
	t.Parallel()

	svc := newTestRankingService(&fakeRankingRepo{}, &seededStatsRepo{})

	rows, err := svc.DefaultRankings(context.Background(), 2025, "standard")
	if err != nil {
		t.Fatalf("DefaultRankings error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("season without synced weeks should produce an empty view, got=%+v", rows)
	}
}

func newTestRankingService(repo *fakeRankingRepo, statsRepo stats.Repository) *RankingService {
	return &RankingService{
		rankingRepo: repo,
		playerRepo:  resolvingPlayerRepo{},
		statsRepo:   statsRepo,
		idgen:       seqIDGen{},
		logger:      logging.NewNop(),
		now:         time.Now,
	}
}

type fakeRankingRepo struct {
	sets    map[string]ranking.Set
	entries map[string][]ranking.Entry
}

func (r *fakeRankingRepo) CreateSet(_ context.Context, set ranking.Set) error {
	if r.sets == nil {
		r.sets = make(map[string]ranking.Set)
	}
	r.sets[set.ID] = set

	return nil
}

func (r *fakeRankingRepo) GetSet(_ context.Context, id string) (ranking.Set, bool, error) {
	set, ok := r.sets[id]
	return set, ok, nil
}

func (r *fakeRankingRepo) ListSetsByUser(_ context.Context, userID string) ([]ranking.Set, error) {
	out := make([]ranking.Set, 0)
	for _, set := range r.sets {
		if set.UserID == userID {
			out = append(out, set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *fakeRankingRepo) RenameSet(_ context.Context, id, name string) error {
	set := r.sets[id]
	set.Name = name
	r.sets[id] = set

	return nil
}

func (r *fakeRankingRepo) DeleteSet(_ context.Context, id string) error {
	delete(r.sets, id)
	return nil
}

func (r *fakeRankingRepo) ReplaceEntries(_ context.Context, setID string, entries []ranking.Entry) error {
	if r.entries == nil {
		r.entries = make(map[string][]ranking.Entry)
	}
	r.entries[setID] = entries

	return nil
}

func (r *fakeRankingRepo) ListEntries(_ context.Context, setID string) ([]ranking.Entry, error) {
	return r.entries[setID], nil
}

type seededStatsRepo struct {
	latestWeek int
	lines      []stats.WeeklyLine
}

func (r *seededStatsRepo) UpsertMany(context.Context, []stats.WeeklyLine) error { return nil }

func (r *seededStatsRepo) ListByPlayer(context.Context, string, int) ([]stats.WeeklyLine, error) {
	return nil, nil
}

func (r *seededStatsRepo) ListByWeek(_ context.Context, season, week int) ([]stats.WeeklyLine, error) {
	out := make([]stats.WeeklyLine, 0)
	for _, line := range r.lines {
		if line.Season == season && line.Week == week {
			out = append(out, line)
		}
	}

	return out, nil
}

func (r *seededStatsRepo) LatestWeek(context.Context, int) (int, bool, error) {
	if r.latestWeek == 0 {
		return 0, false, nil
	}

	return r.latestWeek, true, nil
}
