package player

import (
	"fmt"
	"strings"
)

// Position is one of the fantasy-relevant NFL positions.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "D/ST"
)

var AllPositions = map[Position]struct{}{
	PositionQB:  {},
	PositionRB:  {},
	PositionWR:  {},
	PositionTE:  {},
	PositionK:   {},
	PositionDST: {},
}

// ParsePosition maps provider position codes onto the canonical set.
// The bool result is false for positions outside the fantasy-relevant
// set (offensive linemen, punters, IDP codes, and so on).
func ParsePosition(raw string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "QB":
		return PositionQB, true
	case "RB", "FB":
		return PositionRB, true
	case "WR":
		return PositionWR, true
	case "TE":
		return PositionTE, true
	case "K", "PK":
		return PositionK, true
	case "DEF", "DST", "D/ST":
		return PositionDST, true
	default:
		return "", false
	}
}

// Player is a canonical NFL player record maintained by sync runs.
type Player struct {
	ID        string
	SleeperID string
	EspnID    string
	Name      string
	Position  Position
	Team      string
	Active    bool
	ByeWeek   int
	Metadata  map[string]any
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.SleeperID == "" {
		return fmt.Errorf("player sleeper id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.ByeWeek < 0 || p.ByeWeek > 18 {
		return fmt.Errorf("invalid bye week: %d", p.ByeWeek)
	}

	return nil
}

// Filter narrows player list reads.
type Filter struct {
	Position   Position
	Team       string
	ActiveOnly bool
}
