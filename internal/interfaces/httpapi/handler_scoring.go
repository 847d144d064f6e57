package httpapi

import (
	"fmt"
	"net/http"

	"github.com/statline/gridiron/internal/domain/scoring"
	"github.com/statline/gridiron/internal/usecase"
)

type rawStatsDTO struct {
	PassingYards   float64 `json:"passing_yards"`
	PassingTDs     float64 `json:"passing_tds"`
	Interceptions  float64 `json:"passing_interceptions"`
	RushingYards   float64 `json:"rushing_yards"`
	RushingTDs     float64 `json:"rushing_tds"`
	ReceivingYards float64 `json:"receiving_yards"`
	ReceivingTDs   float64 `json:"receiving_tds"`
	Receptions     float64 `json:"receptions"`
	FumblesLost    float64 `json:"fumbles_lost"`
}

func (d rawStatsDTO) toDomain() scoring.RawStats {
	return scoring.RawStats{
		PassingYards:   d.PassingYards,
		PassingTDs:     d.PassingTDs,
		Interceptions:  d.Interceptions,
		RushingYards:   d.RushingYards,
		RushingTDs:     d.RushingTDs,
		ReceivingYards: d.ReceivingYards,
		ReceivingTDs:   d.ReceivingTDs,
		Receptions:     d.Receptions,
		FumblesLost:    d.FumblesLost,
	}
}

// scoringSettingsDTO starts from the format preset; any field present
// overrides that preset's value.
type scoringSettingsDTO struct {
	Format                 string   `json:"format"`
	PassingYardsPerPoint   *float64 `json:"passing_yards_per_point"`
	RushingYardsPerPoint   *float64 `json:"rushing_yards_per_point"`
	ReceivingYardsPerPoint *float64 `json:"receiving_yards_per_point"`
	TouchdownPoints        *float64 `json:"touchdown_points"`
	ReceptionPoints        *float64 `json:"reception_points"`
	InterceptionPenalty    *float64 `json:"interception_penalty"`
	FumblePenalty          *float64 `json:"fumble_penalty"`
}

func (d *scoringSettingsDTO) toDomain() (scoring.Settings, error) {
	format := ""
	if d != nil {
		format = d.Format
	}
	parsed, err := scoring.ParseFormat(format)
	if err != nil {
		return scoring.Settings{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	settings := scoring.DefaultSettings(parsed)
	if d == nil {
		return settings, nil
	}

	if d.PassingYardsPerPoint != nil {
		settings.PassingYardsPerPoint = *d.PassingYardsPerPoint
	}
	if d.RushingYardsPerPoint != nil {
		settings.RushingYardsPerPoint = *d.RushingYardsPerPoint
	}
	if d.ReceivingYardsPerPoint != nil {
		settings.ReceivingYardsPerPoint = *d.ReceivingYardsPerPoint
	}
	if d.TouchdownPoints != nil {
		settings.TouchdownPoints = *d.TouchdownPoints
	}
	if d.ReceptionPoints != nil {
		settings.ReceptionPoints = *d.ReceptionPoints
	}
	if d.InterceptionPenalty != nil {
		settings.InterceptionPenalty = *d.InterceptionPenalty
	}
	if d.FumblePenalty != nil {
		settings.FumblePenalty = *d.FumblePenalty
	}

	return settings, nil
}

type batchPlayerStatsDTO struct {
	PlayerID string      `json:"player_id" validate:"required"`
	Stats    rawStatsDTO `json:"stats"`
}

type calculatePointsRequest struct {
	Stats    *rawStatsDTO          `json:"stats"`
	Players  []batchPlayerStatsDTO `json:"players" validate:"max=500,dive"`
	Settings *scoringSettingsDTO   `json:"scoring_settings"`
}

// CalculatePoints serves both shapes of the calculator: a single stat
// line, or a batch of (player_id, stats) pairs sharing one settings
// value.
func (h *Handler) CalculatePoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculatePoints")
	defer span.End()

	var req calculatePointsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Stats == nil && len(req.Players) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: either stats or players is required", usecase.ErrInvalidInput))
		return
	}
	if req.Stats != nil && len(req.Players) > 0 {
		writeError(ctx, w, fmt.Errorf("%w: stats and players are mutually exclusive", usecase.ErrInvalidInput))
		return
	}

	settings, err := req.Settings.toDomain()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if req.Stats != nil {
		result, calcErr := h.scoringService.CalculateSingle(ctx, req.Stats.toDomain(), settings)
		if calcErr != nil {
			writeError(ctx, w, calcErr)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, result)
		return
	}

	items := make([]usecase.PlayerStats, 0, len(req.Players))
	for _, p := range req.Players {
		items = append(items, usecase.PlayerStats{PlayerID: p.PlayerID, Stats: p.Stats.toDomain()})
	}

	results, err := h.scoringService.CalculateBatch(ctx, items, settings)
	if err != nil {
		h.logger.WarnContext(ctx, "batch scoring failed", "players", len(items), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"results": results})
}
