package taste

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Energy string

const (
	EnergyLow        Energy = "low"
	EnergyLowMedium  Energy = "low_medium"
	EnergyMedium     Energy = "medium"
	EnergyMediumHigh Energy = "medium_high"
	EnergyHigh       Energy = "high"
)

type Tempo string

const (
	TempoSlow Tempo = "slow"
	TempoMid  Tempo = "mid"
	TempoFast Tempo = "fast"
)

type Vocals string

const (
	VocalsInstrumental Vocals = "instrumental"
	VocalsSparse       Vocals = "sparse"
	VocalsLead         Vocals = "lead_vocal"
	VocalsHarmonies    Vocals = "harmonies"
	VocalsChoral       Vocals = "choral"
	VocalsBackground   Vocals = "background_vocal"
)

type Texture string

const (
	TextureOrganic   Texture = "organic"
	TextureAcoustic  Texture = "acoustic"
	TextureElectric  Texture = "electric"
	TextureSynthetic Texture = "synthetic"
	TextureHybrid    Texture = "hybrid"
	TextureAmbient   Texture = "ambient"
)

type Danceability string

const (
	DanceabilityLow    Danceability = "low"
	DanceabilityMedium Danceability = "medium"
	DanceabilityHigh   Danceability = "high"
)

// Defaults used when a value is missing or unrecognized.
const (
	DefaultEnergy       = EnergyMedium
	DefaultTempo        = TempoMid
	DefaultVocals       = VocalsLead
	DefaultTexture      = TextureHybrid
	DefaultDanceability = DanceabilityMedium
)

// Rated is a cleaned attribute value with its confidence. Missing is set
// when the raw value was empty: the value holds the default but the
// attribute does not vote during aggregation.
type Rated[T ~string] struct {
	Value      T
	Confidence ConfidenceLevel
	Missing    bool
}

// TagSet is a cleaned open-vocabulary tag list: lower-cased, trimmed,
// de-duplicated, in first-seen order.
type TagSet struct {
	Tags       []string
	Confidence ConfidenceLevel
}

func (s TagSet) Has(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizedTrackAnnotation is a RawTrackAnnotation with every value mapped
// onto its canonical form.
type NormalizedTrackAnnotation struct {
	SongName   string
	ArtistName string

	Energy       Rated[Energy]
	Tempo        Rated[Tempo]
	Vocals       Rated[Vocals]
	Texture      Rated[Texture]
	Danceability Rated[Danceability]

	PrimaryGenre    Rated[string]
	SecondaryGenres TagSet
	Emotional       TagSet
	Cognitive       TagSet
	Somatic         TagSet
	Language        Rated[string]
}

type synonym[T ~string] struct {
	value   T
	needles []string
}

// Order matters: the first rule with a matching needle wins.
var energySynonyms = []synonym[Energy]{
	{EnergyMediumHigh, []string{"medium high", "medium-high", "high-medium", "high medium", "moderately high", "fairly high", "upbeat", "lively", "energetic"}},
	{EnergyLowMedium, []string{"medium low", "medium-low", "low-medium", "low medium", "moderately low", "fairly low", "laid back", "laid-back", "relaxed"}},
	{EnergyHigh, []string{"high", "intense", "explosive", "aggressive", "powerful", "frantic"}},
	{EnergyLow, []string{"low", "mellow", "calm", "soft", "gentle", "quiet", "chill", "subdued", "sleepy"}},
	{EnergyMedium, []string{"moderate", "mid", "medium", "balanced"}},
}

var tempoSynonyms = []synonym[Tempo]{
	{TempoSlow, []string{"slow", "ballad", "downtempo", "lento", "adagio"}},
	{TempoFast, []string{"fast", "upbeat", "dance", "quick", "uptempo", "up-tempo", "rapid", "driving", "frenetic"}},
	{TempoMid, []string{"mid", "moderate", "medium", "steady", "walking"}},
}

var vocalsSynonyms = []synonym[Vocals]{
	{VocalsInstrumental, []string{"no vocal", "without vocal", "instrumental", "no singing", "none"}},
	{VocalsChoral, []string{"choir", "choral"}},
	{VocalsHarmonies, []string{"harmon"}},
	{VocalsBackground, []string{"background", "backing"}},
	{VocalsSparse, []string{"sparse", "minimal", "spoken", "sampled"}},
	{VocalsLead, []string{"lead", "vocal", "singer", "sung", "rap"}},
}

var textureSynonyms = []synonym[Texture]{
	{TextureSynthetic, []string{"digital", "programmed", "electronic", "synth"}},
	{TextureAmbient, []string{"ambient", "atmospheric", "drone", "spacious"}},
	{TextureAcoustic, []string{"acoustic", "unplugged"}},
	{TextureElectric, []string{"electric", "amplified", "distorted", "guitar"}},
	{TextureOrganic, []string{"organic", "natural", "live band", "warm"}},
	{TextureHybrid, []string{"hybrid", "mixed", "blend"}},
}

var danceabilitySynonyms = []synonym[Danceability]{
	{DanceabilityLow, []string{"not danceable", "non-danceable", "undanceable", "low", "none"}},
	{DanceabilityMedium, []string{"somewhat", "moderate", "medium", "mid"}},
	{DanceabilityHigh, []string{"high", "danceable", "groovy", "club"}},
}

var (
	energyValues       = []Energy{EnergyLow, EnergyLowMedium, EnergyMedium, EnergyMediumHigh, EnergyHigh}
	tempoValues        = []Tempo{TempoSlow, TempoMid, TempoFast}
	vocalsValues       = []Vocals{VocalsInstrumental, VocalsSparse, VocalsLead, VocalsHarmonies, VocalsChoral, VocalsBackground}
	textureValues      = []Texture{TextureOrganic, TextureAcoustic, TextureElectric, TextureSynthetic, TextureHybrid, TextureAmbient}
	danceabilityValues = []Danceability{DanceabilityLow, DanceabilityMedium, DanceabilityHigh}
)

// Normalize cleans one raw annotation. It never fails: unknown values fall
// back to the documented defaults.
func Normalize(raw RawTrackAnnotation) NormalizedTrackAnnotation {
	ap := raw.AudioPhysics
	st := raw.SemanticTags

	return NormalizedTrackAnnotation{
		SongName:   strings.TrimSpace(raw.SongName),
		ArtistName: strings.TrimSpace(raw.ArtistName),

		Energy:       classify(ap.EnergyLevel, energyValues, energySynonyms, DefaultEnergy),
		Tempo:        classify(ap.TempoFeel, tempoValues, tempoSynonyms, DefaultTempo),
		Vocals:       classify(ap.VocalsType, vocalsValues, vocalsSynonyms, DefaultVocals),
		Texture:      classify(ap.TextureType, textureValues, textureSynonyms, DefaultTexture),
		Danceability: classify(ap.DanceabilityHint, danceabilityValues, danceabilitySynonyms, DefaultDanceability),

		PrimaryGenre:    openValue(st.PrimaryGenre),
		SecondaryGenres: cleanTags(st.SecondaryGenres),
		Emotional:       cleanTags(st.EmotionalTags),
		Cognitive:       cleanTags(st.CognitiveTags),
		Somatic:         cleanTags(st.SomaticTags),
		Language:        openValue(st.LanguageCode),
	}
}

func classify[T ~string](attr RawAttribute, values []T, synonyms []synonym[T], def T) Rated[T] {
	out := Rated[T]{Value: def, Confidence: ParseConfidence(attr.Confidence)}

	text := cleanText(attr.Value)
	if text == "" {
		out.Missing = true
		return out
	}

	token := strings.NewReplacer(" ", "_", "-", "_").Replace(text)
	for _, v := range values {
		if token == string(v) {
			out.Value = v
			return out
		}
	}

	for _, rule := range synonyms {
		for _, needle := range rule.needles {
			if containsWordPrefix(text, needle) {
				out.Value = rule.value
				return out
			}
		}
	}
	return out
}

// containsWordPrefix reports whether needle occurs in text at the start of a
// word, so "low" matches "low-key" but not "slow".
func containsWordPrefix(text, needle string) bool {
	for i := 0; i+len(needle) <= len(text); {
		j := strings.Index(text[i:], needle)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 {
			return true
		}
		if r, _ := utf8.DecodeLastRuneInString(text[:at]); !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
		i = at + 1
	}
	return false
}

func openValue(attr RawAttribute) Rated[string] {
	v := cleanText(attr.Value)
	return Rated[string]{Value: v, Confidence: ParseConfidence(attr.Confidence), Missing: v == ""}
}

func cleanTags(list RawTagList) TagSet {
	set := TagSet{Tags: make([]string, 0, len(list.Values)), Confidence: ParseConfidence(list.Confidence)}
	for _, raw := range list.Values {
		tag := cleanText(raw)
		if tag == "" || set.Has(tag) {
			continue
		}
		set.Tags = append(set.Tags, tag)
	}
	return set
}

// cleanText lower-cases, trims and collapses inner whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
