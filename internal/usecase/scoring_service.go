package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/statline/gridiron/internal/domain/scoring"
	"github.com/statline/gridiron/internal/platform/logging"
)

// Batch requests above this size are fanned out on a worker pool;
// smaller ones are cheaper to run inline.
const scoringPoolThreshold = 16

const scoringPoolSize = 8

// PlayerStats pairs a player with one raw stat line for batch scoring.
type PlayerStats struct {
	PlayerID string
	Stats    scoring.RawStats
}

// PlayerPointsResult is one batch output row. Results are independent
// per player and keep the input order.
type PlayerPointsResult struct {
	PlayerID string               `json:"player_id"`
	Points   scoring.PointsResult `json:"points"`
}

type ScoringService struct {
	logger *logging.Logger
}

func NewScoringService(logger *logging.Logger) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{logger: logger}
}

// CalculateSingle scores one raw stat line under the given settings.
func (s *ScoringService) CalculateSingle(ctx context.Context, raw scoring.RawStats, settings scoring.Settings) (scoring.PointsResult, error) {
	_, span := startUsecaseSpan(ctx, "usecase.ScoringService.CalculateSingle")
	defer span.End()

	if err := settings.Validate(); err != nil {
		return scoring.PointsResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	return scoring.CalculatePoints(raw, settings), nil
}

// CalculateBatch scores many players under one shared settings value.
// Rows are independent; large batches run on a bounded pool.
func (s *ScoringService) CalculateBatch(ctx context.Context, items []PlayerStats, settings scoring.Settings) ([]PlayerPointsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CalculateBatch")
	defer span.End()

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if len(items) == 0 {
		return []PlayerPointsResult{}, nil
	}
	for i, item := range items {
		if item.PlayerID == "" {
			return nil, fmt.Errorf("%w: players[%d] is missing player_id", ErrInvalidInput, i)
		}
	}

	out := make([]PlayerPointsResult, len(items))
	if len(items) < scoringPoolThreshold {
		for i, item := range items {
			out[i] = PlayerPointsResult{
				PlayerID: item.PlayerID,
				Points:   scoring.CalculatePoints(item.Stats, settings),
			}
		}
		return out, nil
	}

	pool, err := ants.NewPool(scoringPoolSize)
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, item := range items {
		i, item := i, item
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			out[i] = PlayerPointsResult{
				PlayerID: item.PlayerID,
				Points:   scoring.CalculatePoints(item.Stats, settings),
			}
		}); submitErr != nil {
			wg.Done()
			s.logger.WarnContext(ctx, "scoring pool submit rejected, running inline", "error", submitErr)
			out[i] = PlayerPointsResult{
				PlayerID: item.PlayerID,
				Points:   scoring.CalculatePoints(item.Stats, settings),
			}
		}
	}
	wg.Wait()

	return out, nil
}
