package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID        string         `db:"id"`
	SleeperID string         `db:"sleeper_id"`
	EspnID    sql.NullString `db:"espn_id"`
	Name      string         `db:"name"`
	Position  string         `db:"position"`
	Team      string         `db:"team"`
	Active    bool           `db:"active"`
	ByeWeek   int            `db:"bye_week"`
	Metadata  []byte         `db:"metadata"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
