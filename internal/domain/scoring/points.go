package scoring

import "math"

// RawStats carries per-game counting stats as they arrive from callers.
// Values are float64 because upstream payloads are loosely typed; Clamp
// coerces anything unusable to zero before computation.
type RawStats struct {
	PassingYards   float64
	PassingTDs     float64
	Interceptions  float64
	RushingYards   float64
	RushingTDs     float64
	ReceivingYards float64
	ReceivingTDs   float64
	Receptions     float64
	FumblesLost    float64
}

// Clamp floors every counter at zero and zeroes non-finite values.
// Bad input is masked rather than rejected; callers needing strict
// validation must validate upstream.
func (r RawStats) Clamp() RawStats {
	return RawStats{
		PassingYards:   clampCounter(r.PassingYards),
		PassingTDs:     clampCounter(r.PassingTDs),
		Interceptions:  clampCounter(r.Interceptions),
		RushingYards:   clampCounter(r.RushingYards),
		RushingTDs:     clampCounter(r.RushingTDs),
		ReceivingYards: clampCounter(r.ReceivingYards),
		ReceivingTDs:   clampCounter(r.ReceivingTDs),
		Receptions:     clampCounter(r.Receptions),
		FumblesLost:    clampCounter(r.FumblesLost),
	}
}

func clampCounter(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// PointsResult is the derived fantasy score for one stat line. Each
// subtotal is rounded to two decimals independently; the total is the
// rounded sum of the rounded subtotals.
type PointsResult struct {
	Format          Format  `json:"format"`
	PassingPoints   float64 `json:"passing_points"`
	RushingPoints   float64 `json:"rushing_points"`
	ReceivingPoints float64 `json:"receiving_points"`
	PenaltyPoints   float64 `json:"penalty_points"`
	TotalPoints     float64 `json:"total_points"`
}

// CalculatePoints maps a raw stat line to a point total under the given
// settings. Deterministic for a given (stats, settings) pair.
func CalculatePoints(raw RawStats, s Settings) PointsResult {
	clamped := raw.Clamp()

	passing := clamped.PassingYards/s.PassingYardsPerPoint + clamped.PassingTDs*s.TouchdownPoints
	rushing := clamped.RushingYards/s.RushingYardsPerPoint + clamped.RushingTDs*s.TouchdownPoints
	receiving := clamped.ReceivingYards/s.ReceivingYardsPerPoint +
		clamped.ReceivingTDs*s.TouchdownPoints +
		clamped.Receptions*s.ReceptionPoints
	penalty := clamped.Interceptions*s.InterceptionPenalty + clamped.FumblesLost*s.FumblePenalty

	result := PointsResult{
		Format:          s.Format,
		PassingPoints:   round2(passing),
		RushingPoints:   round2(rushing),
		ReceivingPoints: round2(receiving),
		PenaltyPoints:   round2(penalty),
	}
	result.TotalPoints = round2(result.PassingPoints + result.RushingPoints + result.ReceivingPoints + result.PenaltyPoints)

	return result
}

// FromWeeklyCounts adapts integer weekly counters to RawStats.
func FromWeeklyCounts(passingYards, passingTDs, interceptions, rushingYards, rushingTDs, receivingYards, receivingTDs, receptions, fumblesLost int) RawStats {
	return RawStats{
		PassingYards:   float64(passingYards),
		PassingTDs:     float64(passingTDs),
		Interceptions:  float64(interceptions),
		RushingYards:   float64(rushingYards),
		RushingTDs:     float64(rushingTDs),
		ReceivingYards: float64(receivingYards),
		ReceivingTDs:   float64(receivingTDs),
		Receptions:     float64(receptions),
		FumblesLost:    float64(fumblesLost),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
