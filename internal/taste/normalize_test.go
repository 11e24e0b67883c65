package taste

import (
	"reflect"
	"testing"
)

func TestParseConfidence(t *testing.T) {
	tests := map[string]ConfidenceLevel{
		"high":      High,
		" HIGH ":    High,
		"Low":       Low,
		"medium":    Medium,
		"":          Medium,
		"certain":   Medium,
		"very high": Medium,
	}
	for in, want := range tests {
		if got := ParseConfidence(in); got != want {
			t.Errorf("ParseConfidence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLevelForShare(t *testing.T) {
	tests := []struct {
		share float64
		want  ConfidenceLevel
	}{
		{0, Low},
		{0.29, Low},
		{0.30, Medium},
		{0.66, Medium},
		{0.67, High},
		{1, High},
	}
	for _, tt := range tests {
		if got := LevelForShare(tt.share); got != tt.want {
			t.Errorf("LevelForShare(%v) = %q, want %q", tt.share, got, tt.want)
		}
	}
}

func TestNormalizeAudioPhysics(t *testing.T) {
	tests := []struct {
		name string
		raw  RawAudioPhysics
		want func(NormalizedTrackAnnotation) bool
	}{
		{"exact energy", RawAudioPhysics{EnergyLevel: attr("HIGH", "high")}, func(n NormalizedTrackAnnotation) bool { return n.Energy.Value == EnergyHigh }},
		{"hyphenated energy", RawAudioPhysics{EnergyLevel: attr("Medium-High", "")}, func(n NormalizedTrackAnnotation) bool { return n.Energy.Value == EnergyMediumHigh }},
		{"mellow energy", RawAudioPhysics{EnergyLevel: attr("Mellow", "")}, func(n NormalizedTrackAnnotation) bool { return n.Energy.Value == EnergyLow }},
		{"medium-low energy", RawAudioPhysics{EnergyLevel: attr("Medium-Low", "")}, func(n NormalizedTrackAnnotation) bool { return n.Energy.Value == EnergyLowMedium }},
		{"medium low energy", RawAudioPhysics{EnergyLevel: attr("medium low", "")}, func(n NormalizedTrackAnnotation) bool { return n.Energy.Value == EnergyLowMedium }},
		{"medium high energy", RawAudioPhysics{EnergyLevel: attr("medium high energy", "")}, func(n NormalizedTrackAnnotation) bool { return n.Energy.Value == EnergyMediumHigh }},
		{"slow is not low energy", RawAudioPhysics{EnergyLevel: attr("slow build", "")}, func(n NormalizedTrackAnnotation) bool { return n.Energy.Value == EnergyMedium }},
		{"low-key energy", RawAudioPhysics{EnergyLevel: attr("low-key", "")}, func(n NormalizedTrackAnnotation) bool { return n.Energy.Value == EnergyLow }},
		{"upbeat energy", RawAudioPhysics{EnergyLevel: attr("upbeat", "")}, func(n NormalizedTrackAnnotation) bool { return n.Energy.Value == EnergyMediumHigh }},
		{"unknown energy", RawAudioPhysics{EnergyLevel: attr("sideways", "")}, func(n NormalizedTrackAnnotation) bool {
			return n.Energy.Value == EnergyMedium && !n.Energy.Missing
		}},
		{"upbeat tempo", RawAudioPhysics{TempoFeel: attr("upbeat dance groove", "")}, func(n NormalizedTrackAnnotation) bool { return n.Tempo.Value == TempoFast }},
		{"ballad tempo", RawAudioPhysics{TempoFeel: attr("slow ballad", "")}, func(n NormalizedTrackAnnotation) bool { return n.Tempo.Value == TempoSlow }},
		{"no vocals", RawAudioPhysics{VocalsType: attr("no vocals", "")}, func(n NormalizedTrackAnnotation) bool { return n.Vocals.Value == VocalsInstrumental }},
		{"choir", RawAudioPhysics{VocalsType: attr("Gospel choir", "")}, func(n NormalizedTrackAnnotation) bool { return n.Vocals.Value == VocalsChoral }},
		{"exact vocals", RawAudioPhysics{VocalsType: attr("background vocal", "")}, func(n NormalizedTrackAnnotation) bool { return n.Vocals.Value == VocalsBackground }},
		{"digital texture", RawAudioPhysics{TextureType: attr("digital", "")}, func(n NormalizedTrackAnnotation) bool { return n.Texture.Value == TextureSynthetic }},
		{"programmed texture", RawAudioPhysics{TextureType: attr("programmed beats", "")}, func(n NormalizedTrackAnnotation) bool { return n.Texture.Value == TextureSynthetic }},
		{"unknown texture", RawAudioPhysics{TextureType: attr("crunchy", "")}, func(n NormalizedTrackAnnotation) bool { return n.Texture.Value == TextureHybrid }},
		{"not danceable", RawAudioPhysics{DanceabilityHint: attr("not danceable", "")}, func(n NormalizedTrackAnnotation) bool { return n.Danceability.Value == DanceabilityLow }},
		{"highly danceable", RawAudioPhysics{DanceabilityHint: attr("highly danceable", "")}, func(n NormalizedTrackAnnotation) bool { return n.Danceability.Value == DanceabilityHigh }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(RawTrackAnnotation{AudioPhysics: tt.raw})
			if !tt.want(n) {
				t.Errorf("Normalize(%+v) = %+v", tt.raw, n)
			}
		})
	}
}

func TestNormalizeMissingValues(t *testing.T) {
	n := Normalize(RawTrackAnnotation{})

	if !n.Energy.Missing || n.Energy.Value != DefaultEnergy || n.Energy.Confidence != Medium {
		t.Errorf("energy = %+v, want missing default", n.Energy)
	}
	if !n.Tempo.Missing || n.Tempo.Value != DefaultTempo {
		t.Errorf("tempo = %+v, want missing default", n.Tempo)
	}
	if !n.Vocals.Missing || n.Vocals.Value != DefaultVocals {
		t.Errorf("vocals = %+v, want missing default", n.Vocals)
	}
	if !n.Texture.Missing || n.Texture.Value != DefaultTexture {
		t.Errorf("texture = %+v, want missing default", n.Texture)
	}
	if !n.Danceability.Missing || n.Danceability.Value != DefaultDanceability {
		t.Errorf("danceability = %+v, want missing default", n.Danceability)
	}
	if !n.PrimaryGenre.Missing || !n.Language.Missing {
		t.Errorf("genre/language should be missing: %+v %+v", n.PrimaryGenre, n.Language)
	}
	if len(n.Emotional.Tags) != 0 {
		t.Errorf("emotional tags = %v, want none", n.Emotional.Tags)
	}
}

func TestNormalizeOpenVocabulary(t *testing.T) {
	raw := RawTrackAnnotation{
		SongName:   "  Song ",
		ArtistName: " Artist",
		SemanticTags: RawSemanticTags{
			PrimaryGenre:    attr("  Indie   Rock ", "LOW"),
			SecondaryGenres: tags("bogus", "Dream Pop", "dream pop", " ", "Shoegaze"),
			EmotionalTags:   tags("high", " Sad ", "sad", "WISTFUL"),
			LanguageCode:    attr(" EN ", "high"),
		},
	}
	n := Normalize(raw)

	if n.SongName != "Song" || n.ArtistName != "Artist" {
		t.Errorf("names = %q/%q", n.SongName, n.ArtistName)
	}
	want := Rated[string]{Value: "indie rock", Confidence: Low}
	if n.PrimaryGenre != want {
		t.Errorf("primary genre = %+v, want %+v", n.PrimaryGenre, want)
	}
	wantSecondary := TagSet{Tags: []string{"dream pop", "shoegaze"}, Confidence: Medium}
	if !reflect.DeepEqual(n.SecondaryGenres, wantSecondary) {
		t.Errorf("secondary genres = %+v, want %+v", n.SecondaryGenres, wantSecondary)
	}
	if !equalStrings(n.Emotional.Tags, []string{"sad", "wistful"}) || n.Emotional.Confidence != High {
		t.Errorf("emotional = %+v", n.Emotional)
	}
	if n.Language.Value != "en" {
		t.Errorf("language = %q, want en", n.Language.Value)
	}
}
