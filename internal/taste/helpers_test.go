package taste

import (
	"math"
	"testing"
)

func attr(value, confidence string) RawAttribute {
	return RawAttribute{Value: value, Confidence: confidence}
}

func tags(confidence string, values ...string) RawTagList {
	return RawTagList{Values: values, Confidence: confidence}
}

// exampleCorpus is the three-track corpus used across the engine tests.
func exampleCorpus() []RawTrackAnnotation {
	return []RawTrackAnnotation{
		{
			SongName:   "Track A",
			ArtistName: "Artist A",
			AudioPhysics: RawAudioPhysics{
				EnergyLevel: attr("high", "high"),
			},
			SemanticTags: RawSemanticTags{
				PrimaryGenre:  attr("pop", "high"),
				EmotionalTags: tags("high", "energized"),
				CognitiveTags: tags("medium", "focused"),
			},
		},
		{
			SongName:   "Track B",
			ArtistName: "Artist B",
			AudioPhysics: RawAudioPhysics{
				EnergyLevel: attr("medium", "medium"),
			},
			SemanticTags: RawSemanticTags{
				PrimaryGenre:  attr("pop", "medium"),
				EmotionalTags: tags("low", "calm"),
			},
		},
		{
			SongName:   "Track C",
			ArtistName: "Artist C",
			SemanticTags: RawSemanticTags{
				PrimaryGenre: attr("jazz", "low"),
			},
		},
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func checkDistribution(t *testing.T, name string, dist []Share, tolerance float64) {
	t.Helper()
	if len(dist) == 0 {
		return
	}
	var sum float64
	for _, s := range dist {
		if s.Weight < 0 {
			t.Errorf("%s: negative weight %v for %q", name, s.Weight, s.Value)
		}
		sum += s.Weight
	}
	if math.Abs(sum-1) > tolerance {
		t.Errorf("%s: weights sum to %v, want 1", name, sum)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
