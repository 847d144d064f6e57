package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/domain/stats"
	"github.com/statline/gridiron/internal/domain/synclog"
	"github.com/statline/gridiron/internal/platform/cache"
	"github.com/statline/gridiron/internal/platform/id"
	"github.com/statline/gridiron/internal/platform/logging"
	"github.com/statline/gridiron/internal/platform/resilience"
)

// ExternalWeeklyStat is a provider-shaped stat line keyed by the
// provider's own player ID.
type ExternalWeeklyStat struct {
	PlayerExternalID string
	PassingYards     int
	PassingTDs       int
	Interceptions    int
	RushingYards     int
	RushingTDs       int
	ReceivingYards   int
	ReceivingTDs     int
	Receptions       int
	FumblesLost      int
}

type StatsProvider interface {
	FetchWeeklyStats(ctx context.Context, season, week int) ([]ExternalWeeklyStat, error)
}

const statsSyncBatchSize = 50

type StatsSyncService struct {
	provider   StatsProvider
	playerRepo player.Repository
	statsRepo  stats.Repository
	runRepo    synclog.Repository
	store      *cache.Store
	idgen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
	flight     resilience.SingleFlight
	batchSize  int
}

func NewStatsSyncService(
	provider StatsProvider,
	playerRepo player.Repository,
	statsRepo stats.Repository,
	runRepo synclog.Repository,
	store *cache.Store,
	idgen id.Generator,
	logger *logging.Logger,
) *StatsSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StatsSyncService{
		provider:   provider,
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		runRepo:    runRepo,
		store:      store,
		idgen:      idgen,
		logger:     logger,
		now:        time.Now,
		batchSize:  statsSyncBatchSize,
	}
}

// Sync pulls one season/week of stat lines, resolves provider IDs to
// canonical players, and upserts the lines in fixed-size batches.
// Lines for players not present in the canonical table are skipped
// with a note instead of failing the run.
func (s *StatsSyncService) Sync(ctx context.Context, season, week int) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsSyncService.Sync")
	defer span.End()

	if season < 2000 || week < 1 || week > 18 {
		return SyncResult{}, fmt.Errorf("%w: season %d week %d is out of range", ErrInvalidInput, season, week)
	}
	if s.provider == nil || s.playerRepo == nil || s.statsRepo == nil {
		return SyncResult{}, fmt.Errorf("%w: stats sync is not fully configured", ErrDependencyUnavailable)
	}

	key := fmt.Sprintf("sync:stats:%d:%d", season, week)
	out, err, shared := s.flight.Do(key, func() (any, error) {
		result, runErr := s.syncOnce(ctx, season, week)
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
		s.logger.InfoContext(ctx, "stats sync joined in-flight run", "season", season, "week", week)
	}

	return result, nil
}

func (s *StatsSyncService) syncOnce(ctx context.Context, season, week int) (SyncResult, error) {
	startedAt := s.now().UTC()
	result := SyncResult{Type: synclog.RunTypeWeeklyStats, Season: season, Week: week, Errors: []string{}}

	external, err := s.provider.FetchWeeklyStats(ctx, season, week)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch weekly stats %d/%d: %w", season, week, err)
	}
	result.TotalProcessed = len(external)

	lines, notes, resolveErr := s.resolve(ctx, external, season, week)
	if resolveErr != nil {
		return SyncResult{}, resolveErr
	}
	result.Skipped = len(notes)

	batchErrors := 0
	for start := 0; start < len(lines); start += s.batchSize {
		end := start + s.batchSize
		if end > len(lines) {
			end = len(lines)
		}
		batch := lines[start:end]

		if upsertErr := s.statsRepo.UpsertMany(ctx, batch); upsertErr != nil {
			batchErrors += len(batch)
			result.Errors = append(result.Errors, fmt.Sprintf("upsert stats [%d:%d]: %v", start, end, upsertErr))
			s.logger.WarnContext(ctx, "stats batch upsert failed",
				"season", season,
				"week", week,
				"batch_start", start,
				"error", upsertErr,
			)
			continue
		}
		result.Updated += len(batch)
	}

	result.Success = classifyRunSuccess(result.TotalProcessed, batchErrors)
	result.Errors = capReportedErrors(result.Errors)
	finishedAt := s.now().UTC()
	result.DurationMs = finishedAt.Sub(startedAt).Milliseconds()
	if result.Success {
		markDataRefresh(ctx, s.store, finishedAt)
	}

	s.recordRun(ctx, synclog.Run{
		Type:       synclog.RunTypeWeeklyStats,
		Season:     season,
		Week:       week,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Processed:  result.TotalProcessed,
		Updated:    result.Updated,
		Skipped:    result.Skipped,
		ErrorCount: batchErrors,
		Success:    result.Success,
		Notes:      notes,
	})

	s.logger.InfoContext(ctx, "stats sync finished",
		"season", season,
		"week", week,
		"processed", result.TotalProcessed,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"success", result.Success,
	)

	return result, nil
}

func (s *StatsSyncService) resolve(ctx context.Context, external []ExternalWeeklyStat, season, week int) ([]stats.WeeklyLine, []string, error) {
	externalIDs := make([]string, 0, len(external))
	for _, raw := range external {
		if raw.PlayerExternalID != "" {
			externalIDs = append(externalIDs, raw.PlayerExternalID)
		}
	}

	known, err := s.playerRepo.GetBySleeperIDs(ctx, externalIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve players: %w", err)
	}

	lines := make([]stats.WeeklyLine, 0, len(external))
	notes := make([]string, 0)
	for _, raw := range external {
		mapped, ok := known[raw.PlayerExternalID]
		if !ok {
			notes = append(notes, fmt.Sprintf("skip stat line for unknown player id=%s", raw.PlayerExternalID))
			continue
		}

		line := stats.WeeklyLine{
			PlayerID:       mapped.ID,
			Season:         season,
			Week:           week,
			PassingYards:   raw.PassingYards,
			PassingTDs:     raw.PassingTDs,
			Interceptions:  raw.Interceptions,
			RushingYards:   raw.RushingYards,
			RushingTDs:     raw.RushingTDs,
			ReceivingYards: raw.ReceivingYards,
			ReceivingTDs:   raw.ReceivingTDs,
			Receptions:     raw.Receptions,
			FumblesLost:    raw.FumblesLost,
		}
		if err := line.Validate(); err != nil {
			notes = append(notes, fmt.Sprintf("skip stat line for player %s: %v", mapped.ID, err))
			continue
		}
		lines = append(lines, line)
	}

	return lines, notes, nil
}

func (s *StatsSyncService) recordRun(ctx context.Context, run synclog.Run) {
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
