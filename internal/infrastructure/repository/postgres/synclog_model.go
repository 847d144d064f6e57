package postgres

import "time"

type syncRunTableModel struct {
	ID         string    `db:"id"`
	RunType    string    `db:"run_type"`
	Season     int       `db:"season"`
	Week       int       `db:"week"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Processed  int       `db:"processed"`
	Added      int       `db:"added"`
	Updated    int       `db:"updated"`
	Skipped    int       `db:"skipped"`
	ErrorCount int       `db:"error_count"`
	Success    bool      `db:"success"`
	Notes      []byte    `db:"notes"`
}
