package ranking

import (
	"fmt"
	"time"

	"github.com/statline/gridiron/internal/domain/scoring"
)

// Set is a user-owned ordering of players for one scoring format.
type Set struct {
	ID        string
	UserID    string
	Name      string
	Format    scoring.Format
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Set) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("ranking set id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("ranking set user id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("ranking set name is required")
	}
	if _, err := scoring.ParseFormat(string(s.Format)); err != nil {
		return err
	}

	return nil
}

// Entry places one player at one rank inside a set. Ranks are dense and
// start at 1.
type Entry struct {
	SetID    string
	PlayerID string
	Rank     int
}
