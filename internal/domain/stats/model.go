package stats

import "fmt"

// WeeklyLine holds raw counting stats for one player in one NFL week.
// The (PlayerID, Season, Week) triple uniquely identifies a line; a
// re-sync overwrites it in place.
type WeeklyLine struct {
	PlayerID       string
	Season         int
	Week           int
	PassingYards   int
	PassingTDs     int
	Interceptions  int
	RushingYards   int
	RushingTDs     int
	ReceivingYards int
	ReceivingTDs   int
	Receptions     int
	FumblesLost    int
}

func (l WeeklyLine) Validate() error {
	if l.PlayerID == "" {
		return fmt.Errorf("weekly line player id is required")
	}
	if l.Season < 2000 {
		return fmt.Errorf("invalid season: %d", l.Season)
	}
	if l.Week < 1 || l.Week > 18 {
		return fmt.Errorf("invalid week: %d", l.Week)
	}

	return nil
}

// Key identifies a weekly line.
func (l WeeklyLine) Key() string {
	return fmt.Sprintf("%s:%d:%d", l.PlayerID, l.Season, l.Week)
}
