package stats

import "context"

type Repository interface {
	UpsertMany(ctx context.Context, items []WeeklyLine) error
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]WeeklyLine, error)
	ListByWeek(ctx context.Context, season, week int) ([]WeeklyLine, error)
	LatestWeek(ctx context.Context, season int) (int, bool, error)
}
