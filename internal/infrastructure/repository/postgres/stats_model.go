package postgres

import "time"

type weeklyLineTableModel struct {
	PlayerID       string    `db:"player_id"`
	Season         int       `db:"season"`
	Week           int       `db:"week"`
	PassingYards   int       `db:"passing_yards"`
	PassingTDs     int       `db:"passing_tds"`
	Interceptions  int       `db:"interceptions"`
	RushingYards   int       `db:"rushing_yards"`
	RushingTDs     int       `db:"rushing_tds"`
	ReceivingYards int       `db:"receiving_yards"`
	ReceivingTDs   int       `db:"receiving_tds"`
	Receptions     int       `db:"receptions"`
	FumblesLost    int       `db:"fumbles_lost"`
	UpdatedAt      time.Time `db:"updated_at"`
}
