package profile

import (
	"fmt"
	"time"
)

// Profile is the per-user settings record surfaced on the account page.
type Profile struct {
	UserID       string
	DisplayName  string
	TeamName     string
	FavoriteTeam string
	AvatarURL    string
	UpdatedAt    time.Time
}

func (p Profile) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("profile user id is required")
	}
	if p.DisplayName == "" {
		return fmt.Errorf("profile display name is required")
	}

	return nil
}
