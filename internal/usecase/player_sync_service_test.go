package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/domain/synclog"
	"github.com/statline/gridiron/internal/platform/cache"
	"github.com/statline/gridiron/internal/platform/logging"
)

func TestPlayerSyncService_Sync_BatchesOfOneHundred(t *testing.T) {
	t.Parallel()

	provider := stubPlayerProvider{players: makeExternalPlayers(150)}
	repo := &countingPlayerRepo{}
	runRepo := &capturingRunRepo{}

	svc := newTestPlayerSyncService(provider, repo, runRepo)

	result, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}

	if len(repo.batchSizes) != 2 {
		t.Fatalf("expected 2 upsert calls, got=%d", len(repo.batchSizes))
	}
	if repo.batchSizes[0] != 100 || repo.batchSizes[1] != 50 {
		t.Fatalf("unexpected batch sizes: %v", repo.batchSizes)
	}
	if result.TotalProcessed != 150 {
		t.Fatalf("expected 150 processed, got=%d", result.TotalProcessed)
	}
	if result.Added != 150 {
		t.Fatalf("expected 150 added, got=%d", result.Added)
	}
	if !result.Success {
		t.Fatalf("expected a successful run, got errors=%v", result.Errors)
	}
	if len(runRepo.runs) != 1 {
		t.Fatalf("expected 1 recorded run, got=%d", len(runRepo.runs))
	}
	if runRepo.runs[0].Type != synclog.RunTypePlayers {
		t.Fatalf("unexpected run type: %s", runRepo.runs[0].Type)
	}
}

func TestPlayerSyncService_Sync_SecondBatchFailureKeepsFirstBatchCounts(t *testing.T) {
	t.Parallel()

	provider := stubPlayerProvider{players: makeExternalPlayers(150)}
	repo := &countingPlayerRepo{failOnCall: 2}
	svc := newTestPlayerSyncService(provider, repo, nil)

	result, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}

	if len(repo.batchSizes) != 2 {
		t.Fatalf("expected both batches attempted, got=%d calls", len(repo.batchSizes))
	}
	if result.Added != 100 {
		t.Fatalf("expected first batch's 100 adds to survive, got=%d", result.Added)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 batch error, got=%v", result.Errors)
	}
	if !result.Success {
		t.Fatalf("50 errored of 150 processed should still classify as success")
	}
}

func TestPlayerSyncService_Sync_SkipsInvalidRecords(t *testing.T) {
	t.Parallel()

	provider := stubPlayerProvider{players: []ExternalPlayer{
		{ExternalID: "1", Name: "Josh Allen", Position: "QB", Team: "BUF"},
		{ExternalID: "2", Name: "", Position: "RB", Team: "SF"},
		{ExternalID: "3", Name: "Long Snapper", Position: "LS", Team: "DAL"},
		{ExternalID: "4", Name: "Buffalo Defense", Position: "DEF", Team: "BUF"},
	}}
	repo := &countingPlayerRepo{}
	svc := newTestPlayerSyncService(provider, repo, nil)

	result, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}

	if result.Skipped != 2 {
		t.Fatalf("expected 2 skipped records, got=%d", result.Skipped)
	}
	if repo.total != 2 {
		t.Fatalf("expected 2 upserted players, got=%d", repo.total)
	}
	if repo.lastPositions["4"] != player.PositionDST {
		t.Fatalf("DEF should normalize to D/ST, got=%s", repo.lastPositions["4"])
	}
}

func TestPlayerSyncService_Sync_SuccessfulRunRefreshesCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cache.NewStore(time.Minute)
	store.Set(ctx, playerListCachePrefix+"QB::true", []player.Player{{ID: "stale"}})

	provider := stubPlayerProvider{players: makeExternalPlayers(3)}
	repo := &countingPlayerRepo{}
	svc := newTestPlayerSyncService(provider, repo, nil)
	svc.store = store

	result, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected a successful run, got errors=%v", result.Errors)
	}

	if _, ok := store.Get(ctx, playerListCachePrefix+"QB::true"); ok {
		t.Fatal("expected cached player lists to be dropped after a successful sync")
	}
	if _, ok := store.Get(ctx, dataRefreshCacheKey); !ok {
		t.Fatal("expected the refresh marker to be written after a successful sync")
	}
	if store.LastWriteAt().IsZero() {
		t.Fatal("expected the store's last-write clock to advance")
	}
}

func TestPlayerSyncService_Sync_FailedRunLeavesFreshnessUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cache.NewStore(time.Minute)

	// A single batch that fails entirely classifies the run as failed.
	provider := stubPlayerProvider{players: makeExternalPlayers(2)}
	repo := &countingPlayerRepo{failOnCall: 1}
	svc := newTestPlayerSyncService(provider, repo, nil)
	svc.store = store

	result, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if result.Success {
		t.Fatal("expected the run to classify as failed")
	}
	if !store.LastWriteAt().IsZero() {
		t.Fatal("a failed run must not advance the freshness clock")
	}
}

func TestClassifyRunSuccess(t *testing.T) {
	t.Parallel()

	cases := []struct {
		processed, errored int
		want               bool
	}{
		{processed: 0, errored: 0, want: true},
		{processed: 0, errored: 1, want: false},
		{processed: 100, errored: 49, want: true},
		{processed: 100, errored: 50, want: false},
		{processed: 100, errored: 99, want: false},
	}
	for _, tc := range cases {
		if got := classifyRunSuccess(tc.processed, tc.errored); got != tc.want {
			t.Fatalf("classifyRunSuccess(%d, %d)=%v want=%v", tc.processed, tc.errored, got, tc.want)
		}
	}
}

func TestCapReportedErrors(t *testing.T) {
	t.Parallel()

	errs := make([]string, 25)
	for i := range errs {
		errs[i] = fmt.Sprintf("error %d", i)
	}

	capped := capReportedErrors(errs)
	if len(capped) != 11 {
		t.Fatalf("expected 10 errors plus a summary line, got=%d", len(capped))
	}
	if !strings.Contains(capped[10], "15 more") {
		t.Fatalf("summary line should count the trimmed errors: %s", capped[10])
	}

	short := []string{"one"}
	if got := capReportedErrors(short); len(got) != 1 {
		t.Fatalf("short lists must pass through untouched, got=%v", got)
	}
}

func newTestPlayerSyncService(provider PlayerProvider, repo player.Repository, runRepo synclog.Repository) *PlayerSyncService {
	return &PlayerSyncService{
		provider:   provider,
		playerRepo: repo,
		runRepo:    runRepo,
		logger:     logging.NewNop(),
		now:        time.Now,
		batchSize:  playerSyncBatchSize,
	}
}

func makeExternalPlayers(n int) []ExternalPlayer {
	players := make([]ExternalPlayer, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, ExternalPlayer{
			ExternalID: fmt.Sprintf("%d", i+1),
			Name:       fmt.Sprintf("Player %d", i+1),
			Position:   "RB",
			Team:       "KC",
			Active:     true,
		})
	}

	return players
}

type stubPlayerProvider struct {
	players []ExternalPlayer
	err     error
}

func (s stubPlayerProvider) FetchPlayers(context.Context) ([]ExternalPlayer, error) {
	return s.players, s.err
}

type countingPlayerRepo struct {
	batchSizes    []int
	total         int
	failOnCall    int
	lastPositions map[string]player.Position
}

func (r *countingPlayerRepo) UpsertMany(_ context.Context, items []player.Player) (player.UpsertOutcome, error) {
	r.batchSizes = append(r.batchSizes, len(items))
	if r.failOnCall > 0 && len(r.batchSizes) == r.failOnCall {
		return player.UpsertOutcome{}, fmt.Errorf("datastore unavailable")
	}
	if r.lastPositions == nil {
		r.lastPositions = make(map[string]player.Position)
	}
	for _, item := range items {
		r.lastPositions[item.SleeperID] = item.Position
	}
	r.total += len(items)

	return player.UpsertOutcome{Added: len(items)}, nil
}

func (r *countingPlayerRepo) List(context.Context, player.Filter) ([]player.Player, error) {
	return nil, nil
}

func (r *countingPlayerRepo) GetByID(context.Context, string) (player.Player, bool, error) {
	return player.Player{}, false, nil
}

func (r *countingPlayerRepo) GetBySleeperIDs(context.Context, []string) (map[string]player.Player, error) {
	return nil, nil
}

func (r *countingPlayerRepo) ListMissingEspnID(context.Context) ([]player.Player, error) {
	return nil, nil
}

func (r *countingPlayerRepo) SetEspnID(context.Context, string, string) error { return nil }

func (r *countingPlayerRepo) Count(context.Context) (int, error) { return r.total, nil }

type capturingRunRepo struct {
	runs []synclog.Run
}

func (r *capturingRunRepo) Insert(_ context.Context, run synclog.Run) error {
	r.runs = append(r.runs, run)
	return nil
}

func (r *capturingRunRepo) ListRecent(_ context.Context, limit int) ([]synclog.Run, error) {
	if limit > len(r.runs) {
		limit = len(r.runs)
	}

	return r.runs[:limit], nil
}
