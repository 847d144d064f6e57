package trade

import (
	"math"
	"testing"

	"github.com/statline/gridiron/internal/domain/player"
)

func TestValue_RankCurveAndMultipliers(t *testing.T) {
	t.Parallel()

	rb := Player{PlayerID: "p1", Position: player.PositionRB, Rank: 1}
	qb := Player{PlayerID: "p2", Position: player.PositionQB, Rank: 1}

	rbValue := Value(rb, 150)
	qbValue := Value(qb, 150)

	// maxRank floors at 200 even with only 150 ranked players.
	wantQB := float64(199 * 199)
	if qbValue != wantQB {
		t.Fatalf("qb value: got=%v want=%v", qbValue, wantQB)
	}
	if math.Abs(rbValue-wantQB*1.3) > 1e-9 {
		t.Fatalf("rb value: got=%v want=%v", rbValue, wantQB*1.3)
	}
}

func TestValue_UnrankedFloorsAtOne(t *testing.T) {
	t.Parallel()

	for _, pos := range []player.Position{
		player.PositionQB, player.PositionRB, player.PositionWR,
		player.PositionTE, player.PositionK, player.PositionDST,
	} {
		got := Value(Player{PlayerID: "x", Position: pos, Rank: 0}, 300)
		if got < 1 {
			t.Fatalf("unranked %s value below floor: %v", pos, got)
		}
		if got != 1 {
			t.Fatalf("unranked %s value: got=%v want=1", pos, got)
		}
	}
}

func TestValue_LargerRankedSetRaisesMaxRank(t *testing.T) {
	t.Parallel()

	p := Player{PlayerID: "p1", Position: player.PositionQB, Rank: 10}
	if Value(p, 300) <= Value(p, 200) {
		t.Fatal("expected larger ranked set to raise values")
	}
}

func TestAnalyze_RequiresBothSides(t *testing.T) {
	t.Parallel()

	one := []Player{{PlayerID: "p1", Position: player.PositionWR, Rank: 5}}

	if _, ok := Analyze(nil, one, 200); ok {
		t.Fatal("expected no analysis with empty yours side")
	}
	if _, ok := Analyze(one, nil, 200); ok {
		t.Fatal("expected no analysis with empty target side")
	}
	if _, ok := Analyze(one, one, 200); !ok {
		t.Fatal("expected analysis once both sides are populated")
	}
}

func TestAnalyze_IdenticalSidesAreVeryFair(t *testing.T) {
	t.Parallel()

	yours := []Player{{PlayerID: "p1", Position: player.PositionQB, Rank: 12}}
	target := []Player{{PlayerID: "p2", Position: player.PositionQB, Rank: 12}}

	a, ok := Analyze(yours, target, 200)
	if !ok {
		t.Fatal("expected analysis")
	}
	if a.Fairness != FairnessVeryFair {
		t.Fatalf("fairness: got=%q want=%q", a.Fairness, FairnessVeryFair)
	}
	if a.WinnerSide != SideNeutral {
		t.Fatalf("winner side: got=%q want=%q", a.WinnerSide, SideNeutral)
	}
	if a.Recommendation != RecommendGoodTrade {
		t.Fatalf("recommendation: got=%q want=%q", a.Recommendation, RecommendGoodTrade)
	}
}

func TestAnalyze_FairnessBands(t *testing.T) {
	t.Parallel()

	// Rank 1 vs rank 30 WRs under a 200 player set:
	// 199^2*1.1 vs 170^2*1.1 => about 27% apart.
	lopsidedYours := []Player{{PlayerID: "p1", Position: player.PositionWR, Rank: 1}}
	lopsidedTarget := []Player{{PlayerID: "p2", Position: player.PositionWR, Rank: 30}}

	a, ok := Analyze(lopsidedYours, lopsidedTarget, 200)
	if !ok {
		t.Fatal("expected analysis")
	}
	if a.PercentDiff < 25 {
		t.Fatalf("expected heavy imbalance, got %.2f%%", a.PercentDiff)
	}
	if a.Fairness != FairnessHeavilyFavorsYou {
		t.Fatalf("fairness: got=%q", a.Fairness)
	}
	if a.Recommendation != RecommendAcceptImmediately {
		t.Fatalf("recommendation: got=%q", a.Recommendation)
	}

	// Flip sides: same spread but now the caller is losing.
	b, _ := Analyze(lopsidedTarget, lopsidedYours, 200)
	if b.Fairness != FairnessHeavilyFavorsThem {
		t.Fatalf("fairness: got=%q", b.Fairness)
	}
	if b.Recommendation != RecommendReject {
		t.Fatalf("recommendation: got=%q", b.Recommendation)
	}

	// Rank 1 vs rank 12 => roughly 11%, in the plain Fair band.
	fairYours := []Player{{PlayerID: "p1", Position: player.PositionWR, Rank: 1}}
	fairTarget := []Player{{PlayerID: "p2", Position: player.PositionWR, Rank: 12}}
	c, _ := Analyze(fairTarget, fairYours, 200)
	if c.Fairness != FairnessFair {
		t.Fatalf("fairness: got=%q want=%q (%.2f%%)", c.Fairness, FairnessFair, c.PercentDiff)
	}
	if c.WinnerSide != SideTarget {
		t.Fatalf("winner side: got=%q want=%q", c.WinnerSide, SideTarget)
	}
	if c.Recommendation != RecommendConsiderRejecting {
		t.Fatalf("recommendation: got=%q", c.Recommendation)
	}
}
