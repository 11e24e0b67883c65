package annotation

import (
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"
)

// The structured-output shape requested from the model. It mirrors
// taste.RawTrackAnnotation; decoding goes through the lenient taste types.
type batchResponse struct {
	Tracks []trackSchema `json:"tracks" jsonschema:"required"`
}

type trackSchema struct {
	SongName     string             `json:"song_name" jsonschema:"required"`
	ArtistName   string             `json:"artist_name" jsonschema:"required"`
	AudioPhysics audioPhysicsSchema `json:"audio_physics" jsonschema:"required"`
	SemanticTags semanticTagsSchema `json:"semantic_tags" jsonschema:"required"`
}

type audioPhysicsSchema struct {
	EnergyLevel      attributeSchema `json:"energy_level" jsonschema:"required"`
	TempoFeel        attributeSchema `json:"tempo_feel" jsonschema:"required"`
	VocalsType       attributeSchema `json:"vocals_type" jsonschema:"required"`
	TextureType      attributeSchema `json:"texture_type" jsonschema:"required"`
	DanceabilityHint attributeSchema `json:"danceability_hint" jsonschema:"required"`
}

type semanticTagsSchema struct {
	PrimaryGenre    attributeSchema `json:"primary_genre" jsonschema:"required"`
	SecondaryGenres tagListSchema   `json:"secondary_genres" jsonschema:"required"`
	EmotionalTags   tagListSchema   `json:"emotional_tags" jsonschema:"required"`
	CognitiveTags   tagListSchema   `json:"cognitive_tags" jsonschema:"required"`
	SomaticTags     tagListSchema   `json:"somatic_tags" jsonschema:"required"`
	LanguageCode    attributeSchema `json:"language_code" jsonschema:"required"`
}

type attributeSchema struct {
	Value      string `json:"value" jsonschema:"required"`
	Confidence string `json:"confidence" jsonschema:"required,enum=low,enum=medium,enum=high"`
}

type tagListSchema struct {
	Values     []string `json:"values" jsonschema:"required"`
	Confidence string   `json:"confidence" jsonschema:"required,enum=low,enum=medium,enum=high"`
}

var annotationSchema = generateSchema[batchResponse]()

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureStrict(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureStrict closes every object and marks all of its properties
// required, as strict structured outputs demand.
func ensureStrict(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			sort.Strings(required)
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		for _, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				ensureStrict(m)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		ensureStrict(items)
	}
}
