package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/statline/gridiron/internal/domain/player"
	"github.com/statline/gridiron/internal/domain/trade"
)

func TestTradeService_Analyze_NilAnalysisForEmptySide(t *testing.T) {
	t.Parallel()

	svc := NewTradeService(seededTradePlayerRepo{players: map[string]player.Player{
		"p1": {ID: "p1", Name: "Josh Allen", Position: player.PositionQB},
	}})

	result, err := svc.Analyze(context.Background(), TradeInput{
		Yours: []TradeSidePlayer{{PlayerID: "p1", Rank: 5}},
	})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if result.Analysis != nil {
		t.Fatalf("analysis must stay nil while a side is empty, got=%+v", result.Analysis)
	}
	if len(result.Yours) != 1 || result.Yours[0].Value <= 0 {
		t.Fatalf("offered players are still valued: %+v", result.Yours)
	}
}

func TestTradeService_Analyze_IdenticalSidesAreNeutral(t *testing.T) {
	t.Parallel()

	svc := NewTradeService(seededTradePlayerRepo{players: map[string]player.Player{
		"qb-a": {ID: "qb-a", Name: "QB A", Position: player.PositionQB},
		"qb-b": {ID: "qb-b", Name: "QB B", Position: player.PositionQB},
	}})

	result, err := svc.Analyze(context.Background(), TradeInput{
		Yours:  []TradeSidePlayer{{PlayerID: "qb-a", Rank: 3}},
		Target: []TradeSidePlayer{{PlayerID: "qb-b", Rank: 3}},
	})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if result.Analysis == nil {
		t.Fatalf("both sides populated, analysis expected")
	}
	if result.Analysis.Fairness != trade.FairnessVeryFair {
		t.Fatalf("identical sides must be very fair, got=%s", result.Analysis.Fairness)
	}
	if result.Analysis.WinnerSide != trade.SideNeutral {
		t.Fatalf("identical sides must be neutral, got=%s", result.Analysis.WinnerSide)
	}
	if result.Analysis.Recommendation != trade.RecommendGoodTrade {
		t.Fatalf("unexpected recommendation: %s", result.Analysis.Recommendation)
	}
}

func TestTradeService_Analyze_UnknownPlayer(t *testing.T) {
	t.Parallel()

	svc := NewTradeService(seededTradePlayerRepo{})

	_, err := svc.Analyze(context.Background(), TradeInput{
		Yours:  []TradeSidePlayer{{PlayerID: "ghost", Rank: 1}},
		Target: []TradeSidePlayer{{PlayerID: "ghost", Rank: 2}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
}

func TestTradeService_Analyze_RejectsNegativeRank(t *testing.T) {
	t.Parallel()

	svc := NewTradeService(seededTradePlayerRepo{players: map[string]player.Player{
		"p1": {ID: "p1", Position: player.PositionRB},
	}})

	_, err := svc.Analyze(context.Background(), TradeInput{
		Yours: []TradeSidePlayer{{PlayerID: "p1", Rank: -1}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

type seededTradePlayerRepo struct {
	players map[string]player.Player
}

func (r seededTradePlayerRepo) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	p, ok := r.players[id]
	return p, ok, nil
}

func (r seededTradePlayerRepo) UpsertMany(context.Context, []player.Player) (player.UpsertOutcome, error) {
	return player.UpsertOutcome{}, nil
}

func (r seededTradePlayerRepo) List(context.Context, player.Filter) ([]player.Player, error) {
	return nil, nil
}

func (r seededTradePlayerRepo) GetBySleeperIDs(context.Context, []string) (map[string]player.Player, error) {
	return nil, nil
}

func (r seededTradePlayerRepo) ListMissingEspnID(context.Context) ([]player.Player, error) {
	return nil, nil
}

func (r seededTradePlayerRepo) SetEspnID(context.Context, string, string) error { return nil }

func (r seededTradePlayerRepo) Count(context.Context) (int, error) { return 0, nil }
