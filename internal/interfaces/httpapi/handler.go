package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/statline/gridiron/internal/usecase"
)

const requestBodyLimit = 4 << 20

type Handler struct {
	scoringService *usecase.ScoringService
	tradeService   *usecase.TradeService
	playerService  *usecase.PlayerService
	playerSync     *usecase.PlayerSyncService
	statsSync      *usecase.StatsSyncService
	syncMonitor    *usecase.SyncMonitorService
	mappingService *usecase.MappingService
	rankingService *usecase.RankingService
	profileService *usecase.ProfileService
	healthService  *usecase.HealthService
	logger         *slog.Logger
	validator      *validator.Validate
}

func NewHandler(
	scoringService *usecase.ScoringService,
	tradeService *usecase.TradeService,
	playerService *usecase.PlayerService,
	playerSync *usecase.PlayerSyncService,
	statsSync *usecase.StatsSyncService,
	syncMonitor *usecase.SyncMonitorService,
	mappingService *usecase.MappingService,
	rankingService *usecase.RankingService,
	profileService *usecase.ProfileService,
	healthService *usecase.HealthService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		scoringService: scoringService,
		tradeService:   tradeService,
		playerService:  playerService,
		playerSync:     playerSync,
		statsSync:      statsSync,
		syncMonitor:    syncMonitor,
		mappingService: mappingService,
		rankingService: rankingService,
		profileService: profileService,
		healthService:  healthService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, requestBodyLimit))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
