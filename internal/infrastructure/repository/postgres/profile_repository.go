package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/statline/gridiron/internal/domain/profile"
	qb "github.com/statline/gridiron/internal/platform/querybuilder"
)

type ProfileRepository struct {
	db *sqlx.DB
}

var profileSelectColumns = []string{
	"user_id",
	"display_name",
	"team_name",
	"favorite_team",
	"avatar_url",
	"updated_at",
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (profile.Profile, bool, error) {
	query, args, err := qb.Select(profileSelectColumns...).From("profiles").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("build get profile query: %w", err)
	}

	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("get profile %s: %w", userID, err)
	}

	return profile.Profile{
		UserID:       row.UserID,
		DisplayName:  row.DisplayName,
		TeamName:     row.TeamName,
		FavoriteTeam: row.FavoriteTeam,
		AvatarURL:    row.AvatarURL,
		UpdatedAt:    row.UpdatedAt,
	}, true, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p profile.Profile) error {
	model := profileTableModel{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		TeamName:     p.TeamName,
		FavoriteTeam: p.FavoriteTeam,
		AvatarURL:    p.AvatarURL,
		UpdatedAt:    p.UpdatedAt,
	}

	query, args, err := qb.InsertModel("profiles", model, `ON CONFLICT (user_id)
DO UPDATE SET display_name = EXCLUDED.display_name,
	team_name = EXCLUDED.team_name,
	favorite_team = EXCLUDED.favorite_team,
	avatar_url = EXCLUDED.avatar_url,
	updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.UserID, err)
	}

	return nil
}
