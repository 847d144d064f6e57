package mapping

import (
	"fmt"
	"time"
)

// Confidence labels how likely a suggested match is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

const (
	highScoreThreshold   = 0.85
	mediumScoreThreshold = 0.6
)

// ConfidenceFromScore buckets a fuzzy-match score in [0,1].
func ConfidenceFromScore(score float64) Confidence {
	switch {
	case score >= highScoreThreshold:
		return ConfidenceHigh
	case score >= mediumScoreThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Suggestion pairs a canonical player with a match score against the
// source record.
type Suggestion struct {
	PlayerID   string     `json:"player_id"`
	Name       string     `json:"name"`
	Team       string     `json:"team"`
	Score      float64    `json:"score"`
	Confidence Confidence `json:"confidence"`
}

// ReviewEntry is a pending reconciliation: an externally sourced player
// record with zero or more suggested canonical matches, resolved by an
// operator.
type ReviewEntry struct {
	ID             string
	SourceID       string
	SourceName     string
	SourceTeam     string
	SourcePosition string
	Suggestions    []Suggestion
	CreatedAt      time.Time
}

func (e ReviewEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("review entry id is required")
	}
	if e.SourceID == "" {
		return fmt.Errorf("review entry source id is required")
	}
	if e.SourceName == "" {
		return fmt.Errorf("review entry source name is required")
	}

	return nil
}

// CustomBinding records an operator-entered mapping that did not come
// from a suggestion.
type CustomBinding struct {
	ExternalID    string
	CanonicalName string
	CreatedBy     string
	CreatedAt     time.Time
}
