package postgres

import "time"

type rankingSetTableModel struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Format    string    `db:"format"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type rankingEntryTableModel struct {
	SetID    string `db:"set_id"`
	PlayerID string `db:"player_id"`
	Rank     int    `db:"rank"`
}
