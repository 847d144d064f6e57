package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/statline/gridiron/internal/domain/mapping"
	"github.com/statline/gridiron/internal/usecase"
)

type reviewEntryDTO struct {
	ID             string               `json:"id"`
	SourceID       string               `json:"source_id"`
	SourceName     string               `json:"source_name"`
	SourceTeam     string               `json:"source_team,omitempty"`
	SourcePosition string               `json:"source_position,omitempty"`
	Suggestions    []mapping.Suggestion `json:"suggestions"`
	CreatedAt      time.Time            `json:"created_at"`
}

func reviewEntryToDTO(entry mapping.ReviewEntry) reviewEntryDTO {
	return reviewEntryDTO{
		ID:             entry.ID,
		SourceID:       entry.SourceID,
		SourceName:     entry.SourceName,
		SourceTeam:     entry.SourceTeam,
		SourcePosition: entry.SourcePosition,
		Suggestions:    entry.Suggestions,
		CreatedAt:      entry.CreatedAt,
	}
}

func (h *Handler) ListPendingMappings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingMappings")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	entries, err := h.mappingService.ListPending(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list pending mappings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]reviewEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, reviewEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type acceptMappingRequest struct {
	SuggestedID string `json:"suggested_id" validate:"required"`
}

func (h *Handler) AcceptMapping(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptMapping")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req acceptMappingRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entryID := r.PathValue("entryID")
	if err := h.mappingService.AcceptSuggestion(ctx, entryID, req.SuggestedID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "accept mapping failed", "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "accepted"})
}

type customMappingRequest struct {
	ExternalID    string `json:"external_id" validate:"required"`
	CanonicalName string `json:"canonical_name" validate:"required"`
}

func (h *Handler) AcceptCustomMapping(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptCustomMapping")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req customMappingRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entryID := r.PathValue("entryID")
	if err := h.mappingService.AcceptCustom(ctx, entryID, req.ExternalID, req.CanonicalName, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "accept custom mapping failed", "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "accepted"})
}

type rejectMappingRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

func (h *Handler) RejectMapping(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectMapping")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req rejectMappingRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entryID := r.PathValue("entryID")
	if err := h.mappingService.Reject(ctx, entryID, req.Reason, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "reject mapping failed", "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "rejected"})
}
