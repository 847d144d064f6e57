package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/statline/gridiron/internal/domain/synclog"
	qb "github.com/statline/gridiron/internal/platform/querybuilder"
)

type SyncLogRepository struct {
	db *sqlx.DB
}

var syncRunSelectColumns = []string{
	"id",
	"run_type",
	"season",
	"week",
	"started_at",
	"finished_at",
	"processed",
	"added",
	"updated",
	"skipped",
	"error_count",
	"success",
	"notes",
}

func NewSyncLogRepository(db *sqlx.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

func (r *SyncLogRepository) Insert(ctx context.Context, run synclog.Run) error {
	notes := []byte("[]")
	if len(run.Notes) > 0 {
		encoded, err := sonic.Marshal(run.Notes)
		if err != nil {
			return fmt.Errorf("marshal sync run %s notes: %w", run.ID, err)
		}
		notes = encoded
	}

	model := syncRunTableModel{
		ID:         run.ID,
		RunType:    string(run.Type),
		Season:     run.Season,
		Week:       run.Week,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Processed:  run.Processed,
		Added:      run.Added,
		Updated:    run.Updated,
		Skipped:    run.Skipped,
		ErrorCount: run.ErrorCount,
		Success:    run.Success,
		Notes:      notes,
	}

	query, args, err := qb.InsertModel("sync_runs", model, "")
	if err != nil {
		return fmt.Errorf("build insert sync run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync run %s: %w", run.ID, err)
	}

	return nil
}

func (r *SyncLogRepository) ListRecent(ctx context.Context, limit int) ([]synclog.Run, error) {
	builder := qb.Select(syncRunSelectColumns...).From("sync_runs").
		OrderBy("started_at DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent sync runs query: %w", err)
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent sync runs: %w", err)
	}

	out := make([]synclog.Run, 0, len(rows))
	for _, row := range rows {
		run, err := syncRunFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}

	return out, nil
}

func syncRunFromModel(row syncRunTableModel) (synclog.Run, error) {
	var notes []string
	if len(row.Notes) > 0 {
		if err := sonic.Unmarshal(row.Notes, &notes); err != nil {
			return synclog.Run{}, fmt.Errorf("unmarshal sync run %s notes: %w", row.ID, err)
		}
	}

	return synclog.Run{
		ID:         row.ID,
		Type:       synclog.RunType(row.RunType),
		Season:     row.Season,
		Week:       row.Week,
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
		Processed:  row.Processed,
		Added:      row.Added,
		Updated:    row.Updated,
		Skipped:    row.Skipped,
		ErrorCount: row.ErrorCount,
		Success:    row.Success,
		Notes:      notes,
	}, nil
}
