package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/domain/synclog"
	"github.com/statline/gridiron/internal/platform/cache"
	"github.com/statline/gridiron/internal/platform/id"
	"github.com/statline/gridiron/internal/platform/logging"
	"github.com/statline/gridiron/internal/platform/resilience"
)

// ExternalPlayer is a provider-shaped player record before
// normalization.
type ExternalPlayer struct {
	ExternalID string
	Name       string
	Position   string
	Team       string
	Active     bool
	ByeWeek    int
	EspnID     string
	Metadata   map[string]any
}

// PlayerProvider fetches the full player dataset from a third-party
// API in one call.
type PlayerProvider interface {
	FetchPlayers(ctx context.Context) ([]ExternalPlayer, error)
}

// SyncResult summarizes one run. Success means "mostly succeeded":
// a run is successful while errors stay under half of the processed
// records, not an atomic guarantee.
type SyncResult struct {
	Type           synclog.RunType `json:"type"`
	Season         int             `json:"season,omitempty"`
	Week           int             `json:"week,omitempty"`
	TotalProcessed int             `json:"total_processed"`
	Added          int             `json:"added"`
	Updated        int             `json:"updated"`
	Skipped        int             `json:"skipped"`
	Errors         []string        `json:"errors"`
	Success        bool            `json:"success"`
	DurationMs     int64           `json:"duration_ms"`
}

const playerSyncBatchSize = 100

type PlayerSyncService struct {
	provider   PlayerProvider
	playerRepo player.Repository
	runRepo    synclog.Repository
	store      *cache.Store
	idgen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
	flight     resilience.SingleFlight
	batchSize  int
}

func NewPlayerSyncService(
	provider PlayerProvider,
	playerRepo player.Repository,
	runRepo synclog.Repository,
	store *cache.Store,
	idgen id.Generator,
	logger *logging.Logger,
) *PlayerSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerSyncService{
		provider:   provider,
		playerRepo: playerRepo,
		runRepo:    runRepo,
		store:      store,
		idgen:      idgen,
		logger:     logger,
		now:        time.Now,
		batchSize:  playerSyncBatchSize,
	}
}

// Sync pulls the full player dataset, normalizes it, and upserts in
// fixed-size batches. Concurrent duplicate runs collapse into one.
func (s *PlayerSyncService) Sync(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSyncService.Sync")
	defer span.End()

	if s.provider == nil || s.playerRepo == nil {
		return SyncResult{}, fmt.Errorf("%w: player sync is not fully configured", ErrDependencyUnavailable)
	}

	out, err, shared := s.flight.Do("sync:players", func() (any, error) {
		result, runErr := s.syncOnce(ctx)
		return result, runErr
	})
	if err != nil {
		return SyncResult{}, err
	}
	result, ok := out.(SyncResult)
	if !ok {
		return SyncResult{}, fmt.Errorf("unexpected sync result type %T", out)
	}
	if shared {
		s.logger.InfoContext(ctx, "player sync joined in-flight run")
	}

	return result, nil
}

func (s *PlayerSyncService) syncOnce(ctx context.Context) (SyncResult, error) {
	startedAt := s.now().UTC()
	result := SyncResult{Type: synclog.RunTypePlayers, Errors: []string{}}

	external, err := s.provider.FetchPlayers(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch players: %w", err)
	}

	players, notes := s.normalize(external)
	result.Skipped = len(notes)
	result.TotalProcessed = len(external)

	// Batches run strictly sequentially; a failed batch is recorded and
	// the run moves on to the next one.
	batchErrors := 0
	for start := 0; start < len(players); start += s.batchSize {
		end := start + s.batchSize
		if end > len(players) {
			end = len(players)
		}
		batch := players[start:end]

		outcome, upsertErr := s.playerRepo.UpsertMany(ctx, batch)
		if upsertErr != nil {
			batchErrors += len(batch)
			result.Errors = append(result.Errors, fmt.Sprintf("upsert players [%d:%d]: %v", start, end, upsertErr))
			s.logger.WarnContext(ctx, "player batch upsert failed",
				"batch_start", start,
				"batch_end", end,
				"error", upsertErr,
			)
			continue
		}
		result.Added += outcome.Added
		result.Updated += outcome.Updated
	}

	result.Success = classifyRunSuccess(result.TotalProcessed, batchErrors)
	result.Errors = capReportedErrors(result.Errors)
	finishedAt := s.now().UTC()
	result.DurationMs = finishedAt.Sub(startedAt).Milliseconds()
	if result.Success {
		markDataRefresh(ctx, s.store, finishedAt)
	}

	s.recordRun(ctx, synclog.Run{
		Type:       synclog.RunTypePlayers,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Processed:  result.TotalProcessed,
		Added:      result.Added,
		Updated:    result.Updated,
		Skipped:    result.Skipped,
		ErrorCount: batchErrors,
		Success:    result.Success,
		Notes:      notes,
	})

	s.logger.InfoContext(ctx, "player sync finished",
		"processed", result.TotalProcessed,
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"success", result.Success,
	)

	return result, nil
}

func (s *PlayerSyncService) normalize(external []ExternalPlayer) ([]player.Player, []string) {
	players := make([]player.Player, 0, len(external))
	notes := make([]string, 0)

	for _, raw := range external {
		if raw.ExternalID == "" || raw.Name == "" || raw.Position == "" {
			notes = append(notes, fmt.Sprintf("skip player %q (id=%s): missing required fields", raw.Name, raw.ExternalID))
			continue
		}
		position, ok := player.ParsePosition(raw.Position)
		if !ok {
			notes = append(notes, fmt.Sprintf("skip player %q (id=%s): position %s is not fantasy relevant", raw.Name, raw.ExternalID, raw.Position))
			continue
		}

		players = append(players, player.Player{
			ID:        "slp-" + raw.ExternalID,
			SleeperID: raw.ExternalID,
			EspnID:    raw.EspnID,
			Name:      raw.Name,
			Position:  position,
			Team:      raw.Team,
			Active:    raw.Active,
			ByeWeek:   raw.ByeWeek,
			Metadata:  raw.Metadata,
		})
	}

	return players, notes
}

func (s *PlayerSyncService) recordRun(ctx context.Context, run synclog.Run) {
	if s.runRepo == nil {
		return
	}
	if s.idgen != nil {
		if runID, err := s.idgen.NewID(); err == nil {
			run.ID = runID
		}
	}
	if err := s.runRepo.Insert(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "record sync run failed", "type", run.Type, "error", err)
	}
}

// markDataRefresh drops cached player reads and advances the store's
// last-write clock, which the health freshness probe reads.
func markDataRefresh(ctx context.Context, store *cache.Store, at time.Time) {
	if store == nil {
		return
	}
	store.DeletePrefix(ctx, playerListCachePrefix)
	store.Set(ctx, dataRefreshCacheKey, at)
}

// classifyRunSuccess applies the soft threshold: a run counts as
// successful while errors stay under half of the processed records.
func classifyRunSuccess(processed, errored int) bool {
	if processed == 0 {
		return errored == 0
	}
	return errored*2 < processed
}

const maxReportedErrors = 10

// capReportedErrors trims the error list handed back to callers. The
// full count still shows up in the run record's ErrorCount.
func capReportedErrors(errs []string) []string {
	if len(errs) <= maxReportedErrors {
		return errs
	}
	trimmed := make([]string, maxReportedErrors, maxReportedErrors+1)
	copy(trimmed, errs[:maxReportedErrors])
	return append(trimmed, fmt.Sprintf("... and %d more", len(errs)-maxReportedErrors))
}
