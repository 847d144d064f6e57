package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/statline/gridiron/internal/domain/profile"
	"github.com/statline/gridiron/internal/platform/logging"
)

// ProfileUpdate carries the writable profile fields. Empty strings
// mean "leave unchanged" except on first write, where DisplayName is
// required.
type ProfileUpdate struct {
	DisplayName  string
	TeamName     string
	FavoriteTeam string
	AvatarURL    string
}

type ProfileService struct {
	repo   profile.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewProfileService(repo profile.Repository, logger *logging.Logger) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ProfileService{repo: repo, logger: logger, now: time.Now}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Get")
	defer span.End()

	p, ok, err := s.repo.Get(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: profile for user %s", ErrNotFound, userID)
	}

	return p, nil
}

// Update merges the given fields into the stored profile, creating it
// on first write.
func (s *ProfileService) Update(ctx context.Context, userID string, update ProfileUpdate) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Update")
	defer span.End()

	current, _, err := s.repo.Get(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	current.UserID = userID

	if name := strings.TrimSpace(update.DisplayName); name != "" {
		current.DisplayName = name
	}
	if team := strings.TrimSpace(update.TeamName); team != "" {
		current.TeamName = team
	}
	if fav := strings.TrimSpace(update.FavoriteTeam); fav != "" {
		current.FavoriteTeam = fav
	}
	if avatar := strings.TrimSpace(update.AvatarURL); avatar != "" {
		if parseErr := validateAvatarURL(avatar); parseErr != nil {
			return profile.Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, parseErr)
		}
		current.AvatarURL = avatar
	}

	if err := current.Validate(); err != nil {
		return profile.Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	current.UpdatedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, current); err != nil {
		return profile.Profile{}, fmt.Errorf("save profile %s: %w", userID, err)
	}

	return current, nil
}

func validateAvatarURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("avatar url is not valid: %v", err)
	}
	if parsed.Scheme != "https" {
		return fmt.Errorf("avatar url must use https")
	}

	return nil
}
