package httpapi

import (
	"fmt"
	"net/http"

	"github.com/statline/gridiron/internal/usecase"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	prof, err := h.profileService.Get(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, prof)
}

type updateAvatarRequest struct {
	AvatarURL string `json:"avatar_url" validate:"required,max=500"`
}

// UpdateAvatar writes only the avatar field. The profile editor saves
// avatars independently of the rest of the form.
func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateAvatar")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateAvatarRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	prof, err := h.profileService.Update(ctx, principal.UserID, usecase.ProfileUpdate{AvatarURL: req.AvatarURL})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, prof)
}

type updateProfileRequest struct {
	DisplayName  string `json:"display_name" validate:"omitempty,max=60"`
	TeamName     string `json:"team_name" validate:"omitempty,max=60"`
	FavoriteTeam string `json:"favorite_team" validate:"omitempty,max=10"`
	AvatarURL    string `json:"avatar_url" validate:"omitempty,max=500"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateProfileRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	prof, err := h.profileService.Update(ctx, principal.UserID, usecase.ProfileUpdate{
		DisplayName:  req.DisplayName,
		TeamName:     req.TeamName,
		FavoriteTeam: req.FavoriteTeam,
		AvatarURL:    req.AvatarURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "profile update failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, prof)
}
