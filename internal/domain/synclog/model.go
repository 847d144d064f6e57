package synclog

import "time"

// RunType identifies which sync pipeline produced a run record.
type RunType string

const (
	RunTypePlayers        RunType = "players"
	RunTypeWeeklyStats    RunType = "weekly_stats"
	RunTypeMappingRebuild RunType = "mapping_rebuild"
)

// Run is an append-only record of one sync execution, written once at
// the end of the run and read by the monitoring view.
type Run struct {
	ID         string
	Type       RunType
	Season     int
	Week       int
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Added      int
	Updated    int
	Skipped    int
	ErrorCount int
	Success    bool
	Notes      []string
}
