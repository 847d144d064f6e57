package trade

import (
	"math"

	"github.com/statline/gridiron/internal/domain/player"
)

const (
	// rankFloor keeps the value curve stable for shallow ranking sets.
	rankFloor = 200
	// unrankedOffset places unranked players below the last ranked slot.
	unrankedOffset = 50
	// minValue guarantees unranked players still carry weight in a deal.
	minValue = 1
)

// Player is a tradable player with its positional rank in the caller's
// active ranking set. Rank 0 means unranked.
type Player struct {
	PlayerID string
	Name     string
	Position player.Position
	Rank     int
}

// positionMultiplier encodes positional scarcity. The switch is
// exhaustive over the canonical position set.
func positionMultiplier(pos player.Position) float64 {
	switch pos {
	case player.PositionRB:
		return 1.3
	case player.PositionTE:
		return 1.2
	case player.PositionWR:
		return 1.1
	case player.PositionQB:
		return 1.0
	case player.PositionDST:
		return 0.9
	case player.PositionK:
		return 0.8
	default:
		return 1.0
	}
}

// Value converts a positional rank into a comparable trade value.
// value = (maxRank - rank)^2 * multiplier, where maxRank is the larger
// of rankedCount and 200. Unranked players take rank maxRank+50 and the
// result is floored at 1.
func Value(p Player, rankedCount int) float64 {
	maxRank := rankedCount
	if maxRank < rankFloor {
		maxRank = rankFloor
	}

	rank := p.Rank
	if rank <= 0 {
		rank = maxRank + unrankedOffset
	}

	spread := float64(maxRank - rank)
	if spread < 0 {
		spread = 0
	}
	value := spread * spread * positionMultiplier(p.Position)
	if value < minValue {
		value = minValue
	}

	return value
}

const (
	SideYours   = "yours"
	SideTarget  = "target"
	SideNeutral = "neutral"
)

const (
	FairnessVeryFair          = "Very Fair"
	FairnessFair              = "Fair"
	FairnessHeavilyFavorsYou  = "Heavily Favors Your Side"
	FairnessHeavilyFavorsThem = "Heavily Favors Target Side"
)

const (
	RecommendGoodTrade         = "Good Trade"
	RecommendAccept            = "Accept"
	RecommendConsiderRejecting = "Consider Rejecting"
	RecommendAcceptImmediately = "Accept Immediately"
	RecommendReject            = "Reject Trade"
)

// Analysis compares the aggregated value of the two sides of a trade
// from the perspective of the "yours" side.
type Analysis struct {
	YourValue      float64 `json:"your_value"`
	TargetValue    float64 `json:"target_value"`
	PercentDiff    float64 `json:"percent_diff"`
	Fairness       string  `json:"fairness"`
	WinnerSide     string  `json:"winner_side"`
	Recommendation string  `json:"recommendation"`
}

// Analyze sums values per side and classifies fairness. The bool result
// is false while either side is empty; no analysis exists until both
// sides hold at least one player.
func Analyze(yours, target []Player, rankedCount int) (Analysis, bool) {
	if len(yours) == 0 || len(target) == 0 {
		return Analysis{}, false
	}

	var yourValue, targetValue float64
	for _, p := range yours {
		yourValue += Value(p, rankedCount)
	}
	for _, p := range target {
		targetValue += Value(p, rankedCount)
	}

	larger := math.Max(yourValue, targetValue)
	diff := math.Abs(yourValue - targetValue)
	percent := 0.0
	if larger > 0 {
		percent = diff / larger * 100
	}

	a := Analysis{
		YourValue:   yourValue,
		TargetValue: targetValue,
		PercentDiff: percent,
	}

	winner := SideNeutral
	if yourValue > targetValue {
		winner = SideYours
	} else if targetValue > yourValue {
		winner = SideTarget
	}

	switch {
	case percent < 10:
		a.Fairness = FairnessVeryFair
		a.WinnerSide = SideNeutral
		a.Recommendation = RecommendGoodTrade
	case percent < 25:
		a.Fairness = FairnessFair
		a.WinnerSide = winner
		if winner == SideYours {
			a.Recommendation = RecommendAccept
		} else {
			a.Recommendation = RecommendConsiderRejecting
		}
	default:
		a.WinnerSide = winner
		if winner == SideYours {
			a.Fairness = FairnessHeavilyFavorsYou
			a.Recommendation = RecommendAcceptImmediately
		} else {
			a.Fairness = FairnessHeavilyFavorsThem
			a.Recommendation = RecommendReject
		}
	}

	return a, true
}
