package taste

// SubConfidences are the per-dimension confidences a profile is composed
// from. CognitiveMood and SomaticMood are carried for completeness;
// OverallConfidence uses EmotionalMood as the mood representative.
type SubConfidences struct {
	AudioPhysics  ConfidenceLevel
	Genre         ConfidenceLevel
	EmotionalMood ConfidenceLevel
	CognitiveMood ConfidenceLevel
	SomaticMood   ConfidenceLevel
	Language      ConfidenceLevel
}

// Weights of the overall score, in percent, and the score cut-offs in the
// same units (level rank x 100).
const (
	audioPhysicsPct = 40
	genrePct        = 25
	emotionalPct    = 25
	languagePct     = 10

	mediumCap    = 100
	highCutoff   = 150
	mediumCutoff = 50
)

// OverallConfidence folds the sub-confidences into one level. A low
// audio-physics confidence, or two or more low values among genre,
// emotional mood and language, caps the result at medium.
func OverallConfidence(s SubConfidences) ConfidenceLevel {
	score := audioPhysicsPct*s.AudioPhysics.rank() +
		genrePct*s.Genre.rank() +
		emotionalPct*s.EmotionalMood.rank() +
		languagePct*s.Language.rank()

	lows := 0
	for _, c := range []ConfidenceLevel{s.Genre, s.EmotionalMood, s.Language} {
		if c.rank() == 0 {
			lows++
		}
	}
	if s.AudioPhysics.rank() == 0 || lows >= 2 {
		score = min(score, mediumCap)
	}

	switch {
	case score >= highCutoff:
		return High
	case score >= mediumCutoff:
		return Medium
	default:
		return Low
	}
}
