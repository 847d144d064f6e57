package usecase

import (
	"context"
	"fmt"

	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/domain/trade"
)

// TradeSidePlayer is one player offered on a trade side, with its rank
// in the caller's active ranking set (0 = unranked).
type TradeSidePlayer struct {
	PlayerID string
	Rank     int
}

type TradeInput struct {
	Yours       []TradeSidePlayer
	Target      []TradeSidePlayer
	RankedCount int
}

// TradeValuedPlayer echoes an input player with its resolved identity
// and computed value.
type TradeValuedPlayer struct {
	PlayerID string          `json:"player_id"`
	Name     string          `json:"name"`
	Position player.Position `json:"position"`
	Rank     int             `json:"rank,omitempty"`
	Value    float64         `json:"value"`
}

type TradeResult struct {
	Yours    []TradeValuedPlayer `json:"yours"`
	Target   []TradeValuedPlayer `json:"target"`
	Analysis *trade.Analysis     `json:"analysis"`
}

type TradeService struct {
	playerRepo player.Repository
}

func NewTradeService(playerRepo player.Repository) *TradeService {
	return &TradeService{playerRepo: playerRepo}
}

// Analyze values both sides and classifies the trade. Analysis is nil
// while either side is empty, matching the analyzer UI which only
// renders a verdict once both sides hold a player.
func (s *TradeService) Analyze(ctx context.Context, input TradeInput) (TradeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TradeService.Analyze")
	defer span.End()

	rankedCount := input.RankedCount
	if rankedCount < 0 {
		return TradeResult{}, fmt.Errorf("%w: ranked_count cannot be negative", ErrInvalidInput)
	}

	yours, yoursValued, err := s.resolveSide(ctx, input.Yours, rankedCount)
	if err != nil {
		return TradeResult{}, err
	}
	target, targetValued, err := s.resolveSide(ctx, input.Target, rankedCount)
	if err != nil {
		return TradeResult{}, err
	}

	result := TradeResult{Yours: yoursValued, Target: targetValued}
	if analysis, ok := trade.Analyze(yours, target, rankedCount); ok {
		result.Analysis = &analysis
	}

	return result, nil
}

func (s *TradeService) resolveSide(ctx context.Context, side []TradeSidePlayer, rankedCount int) ([]trade.Player, []TradeValuedPlayer, error) {
	players := make([]trade.Player, 0, len(side))
	valued := make([]TradeValuedPlayer, 0, len(side))

	for _, item := range side {
		if item.PlayerID == "" {
			return nil, nil, fmt.Errorf("%w: trade side player is missing player_id", ErrInvalidInput)
		}
		if item.Rank < 0 {
			return nil, nil, fmt.Errorf("%w: rank cannot be negative", ErrInvalidInput)
		}

		p, found, err := s.playerRepo.GetByID(ctx, item.PlayerID)
		if err != nil {
			return nil, nil, fmt.Errorf("get player %s: %w", item.PlayerID, err)
		}
		if !found {
			return nil, nil, fmt.Errorf("%w: player %s", ErrNotFound, item.PlayerID)
		}

		tp := trade.Player{
			PlayerID: p.ID,
			Name:     p.Name,
			Position: p.Position,
			Rank:     item.Rank,
		}
		players = append(players, tp)
		valued = append(valued, TradeValuedPlayer{
			PlayerID: p.ID,
			Name:     p.Name,
			Position: p.Position,
			Rank:     item.Rank,
			Value:    trade.Value(tp, rankedCount),
		})
	}

	return players, valued, nil
}
