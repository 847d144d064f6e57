package postgres

import "time"

type mappingReviewTableModel struct {
	ID             string    `db:"id"`
	SourceID       string    `db:"source_id"`
	SourceName     string    `db:"source_name"`
	SourceTeam     string    `db:"source_team"`
	SourcePosition string    `db:"source_position"`
	Suggestions    []byte    `db:"suggestions"`
	CreatedAt      time.Time `db:"created_at"`
}

type customBindingTableModel struct {
	ExternalID    string    `db:"external_id"`
	CanonicalName string    `db:"canonical_name"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
}
