package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/statline/gridiron/internal/domain/ranking"
	"github.com/statline/gridiron/internal/usecase"
)

type rankingSetDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func rankingSetToDTO(set ranking.Set) rankingSetDTO {
	return rankingSetDTO{
		ID:        set.ID,
		Name:      set.Name,
		Format:    string(set.Format),
		CreatedAt: set.CreatedAt,
		UpdatedAt: set.UpdatedAt,
	}
}

type createRankingSetRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Format string `json:"format" validate:"omitempty,oneof=standard half_ppr ppr"`
}

func (h *Handler) CreateRankingSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRankingSet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createRankingSetRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	set, err := h.rankingService.CreateSet(ctx, principal.UserID, req.Name, req.Format)
	if err != nil {
		h.logger.WarnContext(ctx, "create ranking set failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rankingSetToDTO(set))
}

func (h *Handler) ListRankingSets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRankingSets")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	sets, err := h.rankingService.ListSets(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list ranking sets failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rankingSetDTO, 0, len(sets))
	for _, set := range sets {
		items = append(items, rankingSetToDTO(set))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type renameRankingSetRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *Handler) RenameRankingSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenameRankingSet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req renameRankingSetRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	setID := r.PathValue("setID")
	if err := h.rankingService.RenameSet(ctx, principal.UserID, setID, req.Name); err != nil {
		h.logger.WarnContext(ctx, "rename ranking set failed", "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "renamed"})
}

func (h *Handler) DeleteRankingSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRankingSet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	setID := r.PathValue("setID")
	if err := h.rankingService.DeleteSet(ctx, principal.UserID, setID); err != nil {
		h.logger.WarnContext(ctx, "delete ranking set failed", "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListRankingEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRankingEntries")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	setID := r.PathValue("setID")
	rows, err := h.rankingService.Entries(ctx, principal.UserID, setID)
	if err != nil {
		h.logger.WarnContext(ctx, "list ranking entries failed", "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

type reorderRankingsRequest struct {
	PlayerIDs []string `json:"player_ids" validate:"required,min=1,max=500,dive,required"`
}

// ReorderRankings replaces the set's order wholesale. The payload is an
// ordered list; ranks come from slice position.
func (h *Handler) ReorderRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReorderRankings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req reorderRankingsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	setID := r.PathValue("setID")
	entries, err := h.rankingService.Reorder(ctx, principal.UserID, setID, req.PlayerIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "reorder rankings failed", "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"set_id": setID, "entries": len(entries)})
}

func (h *Handler) GetDefaultRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDefaultRankings")
	defer span.End()

	season := time.Now().Year()
	if raw := r.URL.Query().Get("season"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: season must be a number", usecase.ErrInvalidInput))
			return
		}
		season = parsed
	}
	format := r.URL.Query().Get("format")

	rows, err := h.rankingService.DefaultRankings(ctx, season, format)
	if err != nil {
		h.logger.WarnContext(ctx, "default rankings failed", "season", season, "format", format, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}
