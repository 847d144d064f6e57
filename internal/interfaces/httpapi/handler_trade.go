package httpapi

import (
	"net/http"

	"github.com/statline/gridiron/internal/usecase"
)

type tradeSidePlayerDTO struct {
	PlayerID string `json:"player_id" validate:"required"`
	Rank     int    `json:"rank" validate:"min=0"`
}

type analyzeTradeRequest struct {
	Yours       []tradeSidePlayerDTO `json:"yours" validate:"max=20,dive"`
	Target      []tradeSidePlayerDTO `json:"target" validate:"max=20,dive"`
	RankedCount int                  `json:"ranked_count" validate:"min=0"`
}

func (h *Handler) AnalyzeTrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnalyzeTrade")
	defer span.End()

	var req analyzeTradeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.TradeInput{RankedCount: req.RankedCount}
	for _, p := range req.Yours {
		input.Yours = append(input.Yours, usecase.TradeSidePlayer{PlayerID: p.PlayerID, Rank: p.Rank})
	}
	for _, p := range req.Target {
		input.Target = append(input.Target, usecase.TradeSidePlayer{PlayerID: p.PlayerID, Rank: p.Rank})
	}

	result, err := h.tradeService.Analyze(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "trade analysis failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
