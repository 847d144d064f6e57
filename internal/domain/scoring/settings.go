package scoring

import "fmt"

// Format selects a reception scoring ruleset.
type Format string

const (
	FormatStandard Format = "standard"
	FormatHalfPPR  Format = "half_ppr"
	FormatPPR      Format = "ppr"
)

func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatStandard, FormatHalfPPR, FormatPPR:
		return Format(raw), nil
	case "":
		return FormatStandard, nil
	default:
		return "", fmt.Errorf("unknown scoring format: %q", raw)
	}
}

// Settings is the scoring ruleset applied to raw stats. It is a value
// object supplied per request, never persisted.
type Settings struct {
	Format                 Format
	PassingYardsPerPoint   float64
	RushingYardsPerPoint   float64
	ReceivingYardsPerPoint float64
	TouchdownPoints        float64
	ReceptionPoints        float64
	InterceptionPenalty    float64
	FumblePenalty          float64
}

// DefaultSettings returns the preset for a format. All presets share
// 25/10/10 yards-per-point, 6 per touchdown, and -2 per turnover; only
// the reception value differs.
func DefaultSettings(format Format) Settings {
	s := Settings{
		Format:                 format,
		PassingYardsPerPoint:   25,
		RushingYardsPerPoint:   10,
		ReceivingYardsPerPoint: 10,
		TouchdownPoints:        6,
		InterceptionPenalty:    -2,
		FumblePenalty:          -2,
	}

	switch format {
	case FormatPPR:
		s.ReceptionPoints = 1
	case FormatHalfPPR:
		s.ReceptionPoints = 0.5
	default:
		s.Format = FormatStandard
		s.ReceptionPoints = 0
	}

	return s
}

func (s Settings) Validate() error {
	if s.PassingYardsPerPoint <= 0 {
		return fmt.Errorf("passing yards per point must be positive")
	}
	if s.RushingYardsPerPoint <= 0 {
		return fmt.Errorf("rushing yards per point must be positive")
	}
	if s.ReceivingYardsPerPoint <= 0 {
		return fmt.Errorf("receiving yards per point must be positive")
	}
	if s.InterceptionPenalty > 0 {
		return fmt.Errorf("interception penalty cannot be positive")
	}
	if s.FumblePenalty > 0 {
		return fmt.Errorf("fumble penalty cannot be positive")
	}

	return nil
}
