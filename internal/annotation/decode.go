package annotation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ademuri/taste-tools/internal/taste"
)

// decodeBatch parses model output into one annotation per song. Entries
// that are not objects decode to an empty annotation, which the engine
// defaults; a wrong entry count fails the whole batch.
func decodeBatch(outputText string, songs []string) ([]taste.RawTrackAnnotation, error) {
	var batch struct {
		Tracks []json.RawMessage `json:"tracks"`
	}
	if err := decodeModelJSON(outputText, &batch); err != nil {
		return nil, err
	}
	if len(batch.Tracks) != len(songs) {
		return nil, fmt.Errorf("annotation: got %d tracks for %d songs", len(batch.Tracks), len(songs))
	}

	out := make([]taste.RawTrackAnnotation, len(songs))
	for i, raw := range batch.Tracks {
		// Errors leave the zero annotation in place.
		_ = json.Unmarshal(raw, &out[i])
	}
	return out, nil
}

// decodeModelJSON unmarshals model output, falling back to the outermost
// {...} span when the model wrapped the JSON in prose or code fences.
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return ErrEmptyResponse
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("annotation: no JSON object found in model output (len=%d)", len(s))
	}

	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("annotation: unmarshal extracted JSON (len=%d): %w", len(sub), err)
	}
	return nil
}
