package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/statline/gridiron/internal/domain/synclog"
)

func (h *Handler) RunPlayerSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPlayerSync")
	defer span.End()

	result, err := h.playerSync.Sync(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "player sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type runStatsSyncRequest struct {
	Season int `json:"season" validate:"required,min=2000"`
	Week   int `json:"week" validate:"required,min=1,max=18"`
}

func (h *Handler) RunStatsSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStatsSync")
	defer span.End()

	var req runStatsSyncRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.statsSync.Sync(ctx, req.Season, req.Week)
	if err != nil {
		h.logger.ErrorContext(ctx, "stats sync failed", "season", req.Season, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunMappingRebuild(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMappingRebuild")
	defer span.End()

	result, err := h.mappingService.RebuildQueue(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "mapping rebuild failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type syncRunDTO struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Season     int       `json:"season,omitempty"`
	Week       int       `json:"week,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Processed  int       `json:"processed"`
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	ErrorCount int       `json:"error_count"`
	Success    bool      `json:"success"`
	Notes      []string  `json:"notes,omitempty"`
}

func syncRunToDTO(run synclog.Run) syncRunDTO {
	return syncRunDTO{
		ID:         run.ID,
		Type:       string(run.Type),
		Season:     run.Season,
		Week:       run.Week,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Processed:  run.Processed,
		Added:      run.Added,
		Updated:    run.Updated,
		Skipped:    run.Skipped,
		ErrorCount: run.ErrorCount,
		Success:    run.Success,
		Notes:      run.Notes,
	}
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	runs, err := h.syncMonitor.RecentRuns(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, syncRunToDTO(run))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
