package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/statline/gridiron/internal/domain/ranking"
	"github.com/statline/gridiron/internal/domain/scoring"
	qb "github.com/statline/gridiron/internal/platform/querybuilder"
)

type RankingRepository struct {
	db *sqlx.DB
}

var rankingSetSelectColumns = []string{
	"id",
	"user_id",
	"name",
	"format",
	"created_at",
	"updated_at",
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

func (r *RankingRepository) CreateSet(ctx context.Context, set ranking.Set) error {
	model := rankingSetTableModel{
		ID:        set.ID,
		UserID:    set.UserID,
		Name:      set.Name,
		Format:    string(set.Format),
		CreatedAt: set.CreatedAt,
		UpdatedAt: set.UpdatedAt,
	}

	query, args, err := qb.InsertModel("ranking_sets", model, "")
	if err != nil {
		return fmt.Errorf("build insert ranking set query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert ranking set %s: %w", set.ID, err)
	}

	return nil
}

func (r *RankingRepository) GetSet(ctx context.Context, id string) (ranking.Set, bool, error) {
	query, args, err := qb.Select(rankingSetSelectColumns...).From("ranking_sets").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return ranking.Set{}, false, fmt.Errorf("build get ranking set query: %w", err)
	}

	var row rankingSetTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ranking.Set{}, false, nil
		}
		return ranking.Set{}, false, fmt.Errorf("get ranking set %s: %w", id, err)
	}

	return rankingSetFromModel(row), true, nil
}

func (r *RankingRepository) ListSetsByUser(ctx context.Context, userID string) ([]ranking.Set, error) {
	query, args, err := qb.Select(rankingSetSelectColumns...).From("ranking_sets").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ranking sets query: %w", err)
	}

	var rows []rankingSetTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ranking sets for user %s: %w", userID, err)
	}

	out := make([]ranking.Set, 0, len(rows))
	for _, row := range rows {
		out = append(out, rankingSetFromModel(row))
	}

	return out, nil
}

func (r *RankingRepository) RenameSet(ctx context.Context, id, name string) error {
	query, args, err := qb.Update("ranking_sets").
		Set("name", name).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build rename ranking set query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("rename ranking set %s: %w", id, err)
	}

	return nil
}

func (r *RankingRepository) DeleteSet(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete ranking set tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entriesQuery, entriesArgs, err := qb.DeleteFrom("ranking_entries").
		Where(qb.Eq("set_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete ranking entries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, entriesQuery, entriesArgs...); err != nil {
		return fmt.Errorf("delete ranking entries for set %s: %w", id, err)
	}

	setQuery, setArgs, err := qb.DeleteFrom("ranking_sets").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete ranking set query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, setQuery, setArgs...); err != nil {
		return fmt.Errorf("delete ranking set %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete ranking set tx: %w", err)
	}

	return nil
}

func (r *RankingRepository) ReplaceEntries(ctx context.Context, setID string, entries []ranking.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace ranking entries tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("ranking_entries").
		Where(qb.Eq("set_id", setID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear ranking entries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear ranking entries for set %s: %w", setID, err)
	}

	for _, entry := range entries {
		model := rankingEntryTableModel{
			SetID:    setID,
			PlayerID: entry.PlayerID,
			Rank:     entry.Rank,
		}
		query, args, err := qb.InsertModel("ranking_entries", model, "")
		if err != nil {
			return fmt.Errorf("build insert ranking entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert ranking entry %s/%s: %w", setID, entry.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace ranking entries tx: %w", err)
	}

	return nil
}

func (r *RankingRepository) ListEntries(ctx context.Context, setID string) ([]ranking.Entry, error) {
	query, args, err := qb.Select("set_id", "player_id", "rank").From("ranking_entries").
		Where(qb.Eq("set_id", setID)).
		OrderBy("rank").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ranking entries query: %w", err)
	}

	var rows []rankingEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ranking entries for set %s: %w", setID, err)
	}

	out := make([]ranking.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.Entry{
			SetID:    row.SetID,
			PlayerID: row.PlayerID,
			Rank:     row.Rank,
		})
	}

	return out, nil
}

func rankingSetFromModel(row rankingSetTableModel) ranking.Set {
	return ranking.Set{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Format:    scoring.Format(row.Format),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
