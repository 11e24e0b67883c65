package taste

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// RawTrackAnnotation is one analyzed song as returned by the annotation
// service. Decoding is lenient: a field with an unexpected shape decodes to
// its zero value and is defaulted later by Normalize.
type RawTrackAnnotation struct {
	SongName     string          `json:"song_name" yaml:"song_name"`
	ArtistName   string          `json:"artist_name" yaml:"artist_name"`
	AudioPhysics RawAudioPhysics `json:"audio_physics" yaml:"audio_physics"`
	SemanticTags RawSemanticTags `json:"semantic_tags" yaml:"semantic_tags"`
}

type RawAudioPhysics struct {
	EnergyLevel      RawAttribute `json:"energy_level" yaml:"energy_level"`
	TempoFeel        RawAttribute `json:"tempo_feel" yaml:"tempo_feel"`
	VocalsType       RawAttribute `json:"vocals_type" yaml:"vocals_type"`
	TextureType      RawAttribute `json:"texture_type" yaml:"texture_type"`
	DanceabilityHint RawAttribute `json:"danceability_hint" yaml:"danceability_hint"`
}

type RawSemanticTags struct {
	PrimaryGenre    RawAttribute `json:"primary_genre" yaml:"primary_genre"`
	SecondaryGenres RawTagList   `json:"secondary_genres" yaml:"secondary_genres"`
	EmotionalTags   RawTagList   `json:"emotional_tags" yaml:"emotional_tags"`
	CognitiveTags   RawTagList   `json:"cognitive_tags" yaml:"cognitive_tags"`
	SomaticTags     RawTagList   `json:"somatic_tags" yaml:"somatic_tags"`
	LanguageCode    RawAttribute `json:"language_code" yaml:"language_code"`
}

// RawAttribute is a single free-text value with its own confidence label.
type RawAttribute struct {
	Value      string `json:"value" yaml:"value"`
	Confidence string `json:"confidence" yaml:"confidence"`
}

// RawTagList is an open-vocabulary tag list sharing one confidence label.
type RawTagList struct {
	Values     []string `json:"values" yaml:"values"`
	Confidence string   `json:"confidence" yaml:"confidence"`
}

var errNotObject = errors.New("taste: annotation is not a JSON object")

func (r *RawTrackAnnotation) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return errNotObject
	}

	*r = RawTrackAnnotation{
		SongName:   scalarString(fields["song_name"]),
		ArtistName: scalarString(fields["artist_name"]),
	}
	// Non-object sections are left zero and defaulted by Normalize.
	_ = json.Unmarshal(fields["audio_physics"], &r.AudioPhysics)
	_ = json.Unmarshal(fields["semantic_tags"], &r.SemanticTags)
	return nil
}

func (a *RawAttribute) UnmarshalJSON(data []byte) error {
	*a = RawAttribute{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] != '{' {
		a.Value = scalarString(data)
		return nil
	}

	var fields struct {
		Value      json.RawMessage `json:"value"`
		Confidence json.RawMessage `json:"confidence"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	a.Value = scalarString(fields.Value)
	a.Confidence = scalarString(fields.Confidence)
	return nil
}

func (l *RawTagList) UnmarshalJSON(data []byte) error {
	*l = RawTagList{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] != '{' {
		l.Values = stringList(data)
		return nil
	}

	var fields struct {
		Values     json.RawMessage `json:"values"`
		Confidence json.RawMessage `json:"confidence"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	l.Values = stringList(fields.Values)
	l.Confidence = scalarString(fields.Confidence)
	return nil
}

// scalarString renders a JSON scalar as text. Objects, arrays and null
// yield "".
func scalarString(data json.RawMessage) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return ""
		}
		return strconv.FormatBool(b)
	case '{', '[', 'n':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return ""
		}
		return n.String()
	}
}

// stringList accepts an array of scalars or a single comma separated string.
func stringList(data json.RawMessage) []string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	s := scalarString(data)
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
