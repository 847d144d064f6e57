package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/statline/gridiron/internal/domain/profile"
	"github.com/statline/gridiron/internal/platform/logging"
)

func TestProfileService_Update_CreatesThenMerges(t *testing.T) {
	t.Parallel()

	repo := &fakeProfileRepo{profiles: map[string]profile.Profile{}}
	svc := NewProfileService(repo, logging.NewNop())

	created, err := svc.Update(context.Background(), "user-1", ProfileUpdate{
		DisplayName: "Sam",
		TeamName:    "Team Sam",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if created.DisplayName != "Sam" || created.TeamName != "Team Sam" {
		t.Fatalf("unexpected created profile: %+v", created)
	}

	merged, err := svc.Update(context.Background(), "user-1", ProfileUpdate{FavoriteTeam: "KC"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if merged.DisplayName != "Sam" || merged.TeamName != "Team Sam" {
		t.Fatalf("empty fields must not wipe stored values: %+v", merged)
	}
	if merged.FavoriteTeam != "KC" {
		t.Fatalf("favorite team not applied: %+v", merged)
	}
}

func TestProfileService_Update_RequiresDisplayNameOnFirstWrite(t *testing.T) {
	t.Parallel()

	repo := &fakeProfileRepo{profiles: map[string]profile.Profile{}}
	svc := NewProfileService(repo, logging.NewNop())

	if _, err := svc.Update(context.Background(), "user-1", ProfileUpdate{TeamName: "No Name"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestProfileService_Update_RejectsInsecureAvatarURL(t *testing.T) {
	t.Parallel()

	repo := &fakeProfileRepo{profiles: map[string]profile.Profile{}}
	svc := NewProfileService(repo, logging.NewNop())

	_, err := svc.Update(context.Background(), "user-1", ProfileUpdate{
		DisplayName: "Sam",
		AvatarURL:   "http://cdn.example.com/avatar.png",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for http avatar, got=%v", err)
	}
}

func TestProfileService_Get_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(&fakeProfileRepo{profiles: map[string]profile.Profile{}}, logging.NewNop())

	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
}

type fakeProfileRepo struct {
	profiles map[string]profile.Profile
}

func (r *fakeProfileRepo) Get(_ context.Context, userID string) (profile.Profile, bool, error) {
	p, ok := r.profiles[userID]
	return p, ok, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p profile.Profile) error {
	r.profiles[p.UserID] = p
	return nil
}
