package postgres

import "time"

type profileTableModel struct {
	UserID       string    `db:"user_id"`
	DisplayName  string    `db:"display_name"`
	TeamName     string    `db:"team_name"`
	FavoriteTeam string    `db:"favorite_team"`
	AvatarURL    string    `db:"avatar_url"`
	UpdatedAt    time.Time `db:"updated_at"`
}
