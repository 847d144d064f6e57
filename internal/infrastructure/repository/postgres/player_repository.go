package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/statline/gridiron/internal/domain/player"
	qb "github.com/statline/gridiron/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"sleeper_id",
	"espn_id",
	"name",
	"position",
	"team",
	"active",
	"bye_week",
	"metadata",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, items []player.Player) (player.UpsertOutcome, error) {
	if len(items) == 0 {
		return player.UpsertOutcome{}, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return player.UpsertOutcome{}, fmt.Errorf("begin upsert players tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	outcome := player.UpsertOutcome{}
	for _, item := range items {
		model, err := playerToModel(item, now)
		if err != nil {
			return player.UpsertOutcome{}, err
		}

		query, args, err := qb.InsertModel("players", model, `ON CONFLICT (id)
DO UPDATE SET sleeper_id = EXCLUDED.sleeper_id,
	espn_id = COALESCE(EXCLUDED.espn_id, players.espn_id),
	name = EXCLUDED.name,
	position = EXCLUDED.position,
	team = EXCLUDED.team,
	active = EXCLUDED.active,
	bye_week = EXCLUDED.bye_week,
	metadata = EXCLUDED.metadata,
	updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0) AS inserted`)
		if err != nil {
			return player.UpsertOutcome{}, fmt.Errorf("build upsert player query: %w", err)
		}

		var inserted bool
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&inserted); err != nil {
			return player.UpsertOutcome{}, fmt.Errorf("upsert player %s: %w", item.ID, err)
		}
		if inserted {
			outcome.Added++
		} else {
			outcome.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return player.UpsertOutcome{}, fmt.Errorf("commit upsert players tx: %w", err)
	}

	return outcome, nil
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	conditions := make([]qb.Condition, 0, 3)
	if filter.Position != "" {
		conditions = append(conditions, qb.Eq("position", string(filter.Position)))
	}
	if filter.Team != "" {
		conditions = append(conditions, qb.Eq("team", strings.ToUpper(filter.Team)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, qb.Eq("active", true))
	}

	builder := qb.Select(playerSelectColumns...).From("players").OrderBy("name")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return playersFromModels(rows)
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player %s: %w", id, err)
	}

	item, err := playerFromModel(row)
	if err != nil {
		return player.Player{}, false, err
	}
	return item, true, nil
}

func (r *PlayerRepository) GetBySleeperIDs(ctx context.Context, sleeperIDs []string) (map[string]player.Player, error) {
	if len(sleeperIDs) == 0 {
		return map[string]player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.In("sleeper_id", stringSliceToAny(sleeperIDs))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get players by sleeper ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get players by sleeper ids: %w", err)
	}

	out := make(map[string]player.Player, len(rows))
	for _, row := range rows {
		item, err := playerFromModel(row)
		if err != nil {
			return nil, err
		}
		out[item.SleeperID] = item
	}

	return out, nil
}

func (r *PlayerRepository) ListMissingEspnID(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(
			qb.Expr("(espn_id IS NULL OR espn_id = '')"),
			qb.Eq("active", true),
		).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players missing espn id query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players missing espn id: %w", err)
	}

	return playersFromModels(rows)
}

func (r *PlayerRepository) SetEspnID(ctx context.Context, playerID, espnID string) error {
	query, args, err := qb.Update("players").
		Set("espn_id", espnID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set player espn id query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set player %s espn id: %w", playerID, err)
	}

	return nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	query, _, err := qb.Select("COUNT(1) AS total").From("players").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count players query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}

	return total, nil
}

func playerToModel(item player.Player, now time.Time) (playerTableModel, error) {
	metadata := []byte("{}")
	if len(item.Metadata) > 0 {
		encoded, err := sonic.Marshal(item.Metadata)
		if err != nil {
			return playerTableModel{}, fmt.Errorf("marshal player %s metadata: %w", item.ID, err)
		}
		metadata = encoded
	}

	return playerTableModel{
		ID:        item.ID,
		SleeperID: item.SleeperID,
		EspnID:    sql.NullString{String: item.EspnID, Valid: item.EspnID != ""},
		Name:      item.Name,
		Position:  string(item.Position),
		Team:      item.Team,
		Active:    item.Active,
		ByeWeek:   item.ByeWeek,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func playerFromModel(row playerTableModel) (player.Player, error) {
	var metadata map[string]any
	if len(row.Metadata) > 0 {
		if err := sonic.Unmarshal(row.Metadata, &metadata); err != nil {
			return player.Player{}, fmt.Errorf("unmarshal player %s metadata: %w", row.ID, err)
		}
	}

	return player.Player{
		ID:        row.ID,
		SleeperID: row.SleeperID,
		EspnID:    row.EspnID.String,
		Name:      row.Name,
		Position:  player.Position(row.Position),
		Team:      row.Team,
		Active:    row.Active,
		ByeWeek:   row.ByeWeek,
		Metadata:  metadata,
	}, nil
}

func playersFromModels(rows []playerTableModel) ([]player.Player, error) {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		item, err := playerFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
