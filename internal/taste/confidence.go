package taste

import "strings"

// ConfidenceLevel is the categorical certainty attached to an inferred attribute.
type ConfidenceLevel string

const (
	Low    ConfidenceLevel = "low"
	Medium ConfidenceLevel = "medium"
	High   ConfidenceLevel = "high"
)

// Shares at or above these values map to the named level. They belong to the
// same table as the 0.30/0.60/1.00 weights below and must change together.
const (
	highShare   = 0.67
	mediumShare = 0.30
)

// ParseConfidence cleans a raw confidence label. Anything outside
// {low, medium, high} becomes Medium.
func ParseConfidence(raw string) ConfidenceLevel {
	switch ConfidenceLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case Low:
		return Low
	case High:
		return High
	default:
		return Medium
	}
}

// Weight returns the numeric aggregation weight of the level.
func (c ConfidenceLevel) Weight() float64 {
	return float64(c.centi()) / 100
}

// centi is the weight in hundredths. Folding integers keeps every
// accumulation exact, so corpus order never changes a result.
func (c ConfidenceLevel) centi() int64 {
	switch c {
	case Low:
		return 30
	case High:
		return 100
	default:
		return 60
	}
}

func (c ConfidenceLevel) rank() int64 {
	switch c {
	case High:
		return 2
	case Medium:
		return 1
	default:
		return 0
	}
}

// LevelForShare buckets a winning share of a dimension into a level.
func LevelForShare(share float64) ConfidenceLevel {
	switch {
	case share >= highShare:
		return High
	case share >= mediumShare:
		return Medium
	default:
		return Low
	}
}

func levelFor(score, total int64) ConfidenceLevel {
	if total <= 0 {
		return Low
	}
	return LevelForShare(ratio(score, total))
}

func ratio(num, den int64) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}
