package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/statline/gridiron/internal/domain/mapping"
	qb "github.com/statline/gridiron/internal/platform/querybuilder"
)

type MappingRepository struct {
	db *sqlx.DB
}

var mappingReviewSelectColumns = []string{
	"id",
	"source_id",
	"source_name",
	"source_team",
	"source_position",
	"suggestions",
	"created_at",
}

func NewMappingRepository(db *sqlx.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

func (r *MappingRepository) InsertMany(ctx context.Context, entries []mapping.ReviewEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert mapping reviews tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, entry := range entries {
		model, err := reviewEntryToModel(entry)
		if err != nil {
			return err
		}

		// A rerun of the rebuild refreshes suggestions for a source
		// record that is still pending.
		query, args, err := qb.InsertModel("mapping_reviews", model, `ON CONFLICT (source_id)
DO UPDATE SET source_name = EXCLUDED.source_name,
	source_team = EXCLUDED.source_team,
	source_position = EXCLUDED.source_position,
	suggestions = EXCLUDED.suggestions`)
		if err != nil {
			return fmt.Errorf("build insert mapping review query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert mapping review %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert mapping reviews tx: %w", err)
	}

	return nil
}

func (r *MappingRepository) ListPending(ctx context.Context, limit int) ([]mapping.ReviewEntry, error) {
	builder := qb.Select(mappingReviewSelectColumns...).From("mapping_reviews").
		OrderBy("created_at")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending mapping reviews query: %w", err)
	}

	var rows []mappingReviewTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending mapping reviews: %w", err)
	}

	out := make([]mapping.ReviewEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := reviewEntryFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}

	return out, nil
}

func (r *MappingRepository) GetByID(ctx context.Context, id string) (mapping.ReviewEntry, bool, error) {
	query, args, err := qb.Select(mappingReviewSelectColumns...).From("mapping_reviews").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return mapping.ReviewEntry{}, false, fmt.Errorf("build get mapping review query: %w", err)
	}

	var row mappingReviewTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return mapping.ReviewEntry{}, false, nil
		}
		return mapping.ReviewEntry{}, false, fmt.Errorf("get mapping review %s: %w", id, err)
	}

	entry, err := reviewEntryFromModel(row)
	if err != nil {
		return mapping.ReviewEntry{}, false, err
	}
	return entry, true, nil
}

func (r *MappingRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.DeleteFrom("mapping_reviews").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete mapping review query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete mapping review %s: %w", id, err)
	}

	return nil
}

func (r *MappingRepository) InsertCustomBinding(ctx context.Context, binding mapping.CustomBinding) error {
	model := customBindingTableModel{
		ExternalID:    binding.ExternalID,
		CanonicalName: binding.CanonicalName,
		CreatedBy:     binding.CreatedBy,
		CreatedAt:     binding.CreatedAt,
	}

	query, args, err := qb.InsertModel("custom_mappings", model, `ON CONFLICT (external_id)
DO UPDATE SET canonical_name = EXCLUDED.canonical_name,
	created_by = EXCLUDED.created_by,
	created_at = EXCLUDED.created_at`)
	if err != nil {
		return fmt.Errorf("build insert custom mapping query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert custom mapping %s: %w", binding.ExternalID, err)
	}

	return nil
}

func reviewEntryToModel(entry mapping.ReviewEntry) (mappingReviewTableModel, error) {
	suggestions, err := sonic.Marshal(entry.Suggestions)
	if err != nil {
		return mappingReviewTableModel{}, fmt.Errorf("marshal mapping review %s suggestions: %w", entry.ID, err)
	}

	return mappingReviewTableModel{
		ID:             entry.ID,
		SourceID:       entry.SourceID,
		SourceName:     entry.SourceName,
		SourceTeam:     entry.SourceTeam,
		SourcePosition: entry.SourcePosition,
		Suggestions:    suggestions,
		CreatedAt:      entry.CreatedAt,
	}, nil
}

func reviewEntryFromModel(row mappingReviewTableModel) (mapping.ReviewEntry, error) {
	var suggestions []mapping.Suggestion
	if len(row.Suggestions) > 0 {
		if err := sonic.Unmarshal(row.Suggestions, &suggestions); err != nil {
			return mapping.ReviewEntry{}, fmt.Errorf("unmarshal mapping review %s suggestions: %w", row.ID, err)
		}
	}

	return mapping.ReviewEntry{
		ID:             row.ID,
		SourceID:       row.SourceID,
		SourceName:     row.SourceName,
		SourceTeam:     row.SourceTeam,
		SourcePosition: row.SourcePosition,
		Suggestions:    suggestions,
		CreatedAt:      row.CreatedAt,
	}, nil
}
