package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/statline/gridiron/internal/domain/stats"
	qb "github.com/statline/gridiron/internal/platform/querybuilder"
)

type StatsRepository struct {
	db *sqlx.DB
}

var weeklyLineSelectColumns = []string{
	"player_id",
	"season",
	"week",
	"passing_yards",
	"passing_tds",
	"interceptions",
	"rushing_yards",
	"rushing_tds",
	"receiving_yards",
	"receiving_tds",
	"receptions",
	"fumbles_lost",
	"updated_at",
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) UpsertMany(ctx context.Context, items []stats.WeeklyLine) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert weekly stats tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, item := range items {
		model := weeklyLineToModel(item, now)
		query, args, err := qb.InsertModel("weekly_stats", model, `ON CONFLICT (player_id, season, week)
DO UPDATE SET passing_yards = EXCLUDED.passing_yards,
	passing_tds = EXCLUDED.passing_tds,
	interceptions = EXCLUDED.interceptions,
	rushing_yards = EXCLUDED.rushing_yards,
	rushing_tds = EXCLUDED.rushing_tds,
	receiving_yards = EXCLUDED.receiving_yards,
	receiving_tds = EXCLUDED.receiving_tds,
	receptions = EXCLUDED.receptions,
	fumbles_lost = EXCLUDED.fumbles_lost,
	updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert weekly line query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert weekly line %s: %w", item.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert weekly stats tx: %w", err)
	}

	return nil
}

func (r *StatsRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]stats.WeeklyLine, error) {
	builder := qb.Select(weeklyLineSelectColumns...).From("weekly_stats").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("season DESC", "week DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weekly stats by player query: %w", err)
	}

	var rows []weeklyLineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list weekly stats by player: %w", err)
	}

	return weeklyLinesFromModels(rows), nil
}

func (r *StatsRepository) ListByWeek(ctx context.Context, season, week int) ([]stats.WeeklyLine, error) {
	query, args, err := qb.Select(weeklyLineSelectColumns...).From("weekly_stats").
		Where(
			qb.Eq("season", season),
			qb.Eq("week", week),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weekly stats by week query: %w", err)
	}

	var rows []weeklyLineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list weekly stats by week: %w", err)
	}

	return weeklyLinesFromModels(rows), nil
}

func (r *StatsRepository) LatestWeek(ctx context.Context, season int) (int, bool, error) {
	query, args, err := qb.Select("MAX(week) AS latest_week").From("weekly_stats").
		Where(qb.Eq("season", season)).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build latest week query: %w", err)
	}

	var latest *int
	if err := r.db.GetContext(ctx, &latest, query, args...); err != nil {
		return 0, false, fmt.Errorf("get latest week: %w", err)
	}
	if latest == nil {
		return 0, false, nil
	}

	return *latest, true, nil
}

func weeklyLineToModel(item stats.WeeklyLine, now time.Time) weeklyLineTableModel {
	return weeklyLineTableModel{
		PlayerID:       item.PlayerID,
		Season:         item.Season,
		Week:           item.Week,
		PassingYards:   item.PassingYards,
		PassingTDs:     item.PassingTDs,
		Interceptions:  item.Interceptions,
		RushingYards:   item.RushingYards,
		RushingTDs:     item.RushingTDs,
		ReceivingYards: item.ReceivingYards,
		ReceivingTDs:   item.ReceivingTDs,
		Receptions:     item.Receptions,
		FumblesLost:    item.FumblesLost,
		UpdatedAt:      now,
	}
}

func weeklyLineFromModel(row weeklyLineTableModel) stats.WeeklyLine {
	return stats.WeeklyLine{
		PlayerID:       row.PlayerID,
		Season:         row.Season,
		Week:           row.Week,
		PassingYards:   row.PassingYards,
		PassingTDs:     row.PassingTDs,
		Interceptions:  row.Interceptions,
		RushingYards:   row.RushingYards,
		RushingTDs:     row.RushingTDs,
		ReceivingYards: row.ReceivingYards,
		ReceivingTDs:   row.ReceivingTDs,
		Receptions:     row.Receptions,
		FumblesLost:    row.FumblesLost,
	}
}

func weeklyLinesFromModels(rows []weeklyLineTableModel) []stats.WeeklyLine {
	out := make([]stats.WeeklyLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, weeklyLineFromModel(row))
	}
	return out
}
