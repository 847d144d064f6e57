package usecase

import (
	"context"
	"fmt"

	"github.com/statline/gridiron/internal/domain/synclog"
)

const (
	defaultRunHistoryLimit = 20
	maxRunHistoryLimit     = 100
)

// SyncMonitorService serves the read side of the sync dashboard.
type SyncMonitorService struct {
	runRepo synclog.Repository
}

func NewSyncMonitorService(runRepo synclog.Repository) *SyncMonitorService {
	return &SyncMonitorService{runRepo: runRepo}
}

func (s *SyncMonitorService) RecentRuns(ctx context.Context, limit int) ([]synclog.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncMonitorService.RecentRuns")
	defer span.End()

	if limit <= 0 {
		limit = defaultRunHistoryLimit
	}
	if limit > maxRunHistoryLimit {
		limit = maxRunHistoryLimit
	}

	runs, err := s.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}

	return runs, nil
}
