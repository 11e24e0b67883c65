package taste

// TasteProfile is the aggregated summary of one corpus. A new corpus yields
// a new profile; nothing mutates one after BuildProfile returns it.
type TasteProfile struct {
	TrackCount               int                 `yaml:"track_count" json:"track_count"`
	LanguageProfile          LanguageProfile     `yaml:"language_profile" json:"language_profile"`
	AudioPhysicsProfile      AudioPhysicsProfile `yaml:"audio_physics_profile" json:"audio_physics_profile"`
	GenreProfile             GenreProfile        `yaml:"genre_profile" json:"genre_profile"`
	EmotionalMoodProfile     MoodProfile         `yaml:"emotional_mood_profile" json:"emotional_mood_profile"`
	CognitiveMoodProfile     MoodProfile         `yaml:"cognitive_mood_profile" json:"cognitive_mood_profile"`
	SomaticMoodProfile       MoodProfile         `yaml:"somatic_mood_profile" json:"somatic_mood_profile"`
	OverallProfileConfidence ConfidenceLevel     `yaml:"overall_profile_confidence" json:"overall_profile_confidence"`
	IntentsRanked            []Intent            `yaml:"intents_ranked" json:"intents_ranked"`

	// ArtistExamples is for display and debugging only.
	ArtistExamples []ArtistExample `yaml:"artist_examples" json:"artist_examples"`
}

// Share is one entry of a distribution.
type Share struct {
	Value  string  `yaml:"value" json:"value"`
	Weight float64 `yaml:"weight" json:"weight"`
}

type LanguageProfile struct {
	Distribution []Share         `yaml:"distribution" json:"distribution"`
	Confidence   ConfidenceLevel `yaml:"confidence" json:"confidence"`
}

type AudioPhysicsProfile struct {
	EnergyBias       Energy          `yaml:"energy_bias" json:"energy_bias"`
	TempoBias        Tempo           `yaml:"tempo_bias" json:"tempo_bias"`
	DanceabilityBias Danceability    `yaml:"danceability_bias" json:"danceability_bias"`
	VocalsBias       Vocals          `yaml:"vocals_bias" json:"vocals_bias"`
	TextureBias      Texture         `yaml:"texture_bias" json:"texture_bias"`
	Confidence       ConfidenceLevel `yaml:"confidence" json:"confidence"`
}

// GenreMode says whether one genre dominates the corpus.
type GenreMode string

const (
	GenreFocused GenreMode = "focused"
	GenreDiverse GenreMode = "diverse"
)

type GenreProfile struct {
	Type            GenreMode       `yaml:"type" json:"type"`
	PrimaryGenres   []string        `yaml:"primary_genres" json:"primary_genres"`
	SecondaryGenres []string        `yaml:"secondary_genres" json:"secondary_genres"`
	Distribution    []Share         `yaml:"distribution" json:"distribution"`
	Confidence      ConfidenceLevel `yaml:"confidence" json:"confidence"`
}

type MoodProfile struct {
	Primary      string          `yaml:"primary" json:"primary"`
	Secondary    []string        `yaml:"secondary" json:"secondary"`
	Distribution []Share         `yaml:"distribution" json:"distribution"`
	Confidence   ConfidenceLevel `yaml:"confidence" json:"confidence"`
}

// Weight returns the share of tag in the distribution, or 0.
func (m MoodProfile) Weight(tag string) float64 {
	for _, s := range m.Distribution {
		if s.Value == tag {
			return s.Weight
		}
	}
	return 0
}

// MoodProfiles groups the three mood axes.
type MoodProfiles struct {
	Emotional MoodProfile
	Cognitive MoodProfile
	Somatic   MoodProfile
}

type ArtistExample struct {
	Name   string  `yaml:"name" json:"name"`
	Score  float64 `yaml:"score" json:"score"`
	Tracks int     `yaml:"tracks" json:"tracks"`
}

// TrackRef names a track in intent evidence.
type TrackRef struct {
	Song   string `yaml:"song" json:"song"`
	Artist string `yaml:"artist" json:"artist"`
}

func (r TrackRef) String() string {
	return r.Song + " by " + r.Artist
}

// Intent is a higher-order listening purpose derived from mood signals.
type Intent struct {
	Name               string             `yaml:"intent" json:"intent"`
	Score              float64            `yaml:"intent_score" json:"intent_score"`
	Weight             float64            `yaml:"intent_weight" json:"intent_weight"`
	Confidence         ConfidenceLevel    `yaml:"confidence" json:"confidence"`
	TrackCount         int                `yaml:"track_count" json:"track_count"`
	Evidence           IntentEvidence     `yaml:"evidence" json:"evidence"`
	GenreHints         []string           `yaml:"genre_hints" json:"genre_hints"`
	PhysicsConstraints PhysicsConstraints `yaml:"physics_constraints" json:"physics_constraints"`
	ExampleTracks      []TrackRef         `yaml:"example_tracks" json:"example_tracks"`
}

type IntentEvidence struct {
	Emotional []TagEvidence `yaml:"emotional" json:"emotional"`
	Cognitive []TagEvidence `yaml:"cognitive" json:"cognitive"`
	Somatic   []TagEvidence `yaml:"somatic" json:"somatic"`
}

type TagEvidence struct {
	Tag      string     `yaml:"tag" json:"tag"`
	Weight   float64    `yaml:"weight" json:"weight"`
	Examples []TrackRef `yaml:"examples" json:"examples"`
}

// PhysicsConstraints are the majority buckets among an intent's tracks.
// Empty fields had no votes.
type PhysicsConstraints struct {
	Energy       Energy       `yaml:"energy,omitempty" json:"energy,omitempty"`
	Tempo        Tempo        `yaml:"tempo,omitempty" json:"tempo,omitempty"`
	Danceability Danceability `yaml:"danceability,omitempty" json:"danceability,omitempty"`
	Vocals       Vocals       `yaml:"vocals,omitempty" json:"vocals,omitempty"`
	Texture      Texture      `yaml:"texture,omitempty" json:"texture,omitempty"`
}
