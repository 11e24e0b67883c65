package taste

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps a combination of mood tags to a named intent. The emotional
// axis is mandatory; cognitive and somatic are referenced only when
// non-empty.
type Rule struct {
	Intent      string   `yaml:"intent"`
	Description string   `yaml:"description,omitempty"`
	Emotional   []string `yaml:"emotional"`
	Cognitive   []string `yaml:"cognitive,omitempty"`
	Somatic     []string `yaml:"somatic,omitempty"`
}

// RuleSet is a swappable intent rule table.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

func DefaultRules() RuleSet {
	return RuleSet{Rules: []Rule{
		{
			Intent:      "comfort",
			Description: "sad or melancholic music that feels tender",
			Emotional:   []string{"sad", "melancholic"},
			Somatic:     []string{"tender"},
		},
		{
			Intent:      "reflect",
			Description: "melancholic music for thinking things over",
			Emotional:   []string{"melancholic"},
			Cognitive:   []string{"reflective"},
		},
		{
			Intent:      "decompress",
			Description: "calm music that settles the body",
			Emotional:   []string{"calm"},
			Somatic:     []string{"grounded"},
		},
		{
			Intent:      "focus",
			Description: "energized music that supports concentration",
			Emotional:   []string{"energized"},
			Cognitive:   []string{"focused"},
		},
		{
			Intent:      "energize",
			Description: "euphoric, physically driving music",
			Emotional:   []string{"energized", "euphoric", "excited"},
			Somatic:     []string{"energetic", "restless"},
		},
		{
			Intent:      "release",
			Description: "angry or defiant music that lets tension out",
			Emotional:   []string{"angry", "defiant"},
			Somatic:     []string{"tense", "energetic"},
		},
		{
			Intent:      "uplift",
			Description: "hopeful music that inspires",
			Emotional:   []string{"happy", "hopeful", "joyful"},
			Cognitive:   []string{"inspired"},
		},
	}}
}

// LoadRules decodes a YAML rule table. Tags are cleaned the same way
// annotation tags are, so rules match normalized tracks.
func LoadRules(r io.Reader) (RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		if errors.Is(err, io.EOF) {
			return RuleSet{}, errors.New("rules: empty rule table")
		}
		return RuleSet{}, fmt.Errorf("rules: decode: %w", err)
	}

	for i := range rs.Rules {
		r := &rs.Rules[i]
		r.Intent = strings.TrimSpace(r.Intent)
		r.Emotional = cleanList(r.Emotional)
		r.Cognitive = cleanList(r.Cognitive)
		r.Somatic = cleanList(r.Somatic)
	}

	if err := rs.Validate(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

func cleanList(tags []string) []string {
	set := cleanTags(RawTagList{Values: tags})
	if len(set.Tags) == 0 {
		return nil
	}
	return set.Tags
}

// Validate checks that every rule is named, names are unique and every rule
// has an emotional axis.
func (rs RuleSet) Validate() error {
	if len(rs.Rules) == 0 {
		return errors.New("rules: no rules")
	}
	seen := make(map[string]bool)
	for i, r := range rs.Rules {
		if r.Intent == "" {
			return fmt.Errorf("rules: rule %d has no intent name", i)
		}
		if seen[r.Intent] {
			return fmt.Errorf("rules: duplicate intent %q", r.Intent)
		}
		seen[r.Intent] = true
		if len(r.Emotional) == 0 {
			return fmt.Errorf("rules: intent %q has no emotional tags", r.Intent)
		}
	}
	return nil
}

// Validate checks the engine's rule table and gates.
func (e Engine) Validate() error {
	if err := e.Rules.Validate(); err != nil {
		return err
	}
	if v := e.EligibilityThreshold; v <= 0 || v > 1 {
		return fmt.Errorf("engine: eligibility threshold %v outside (0, 1]", v)
	}
	if v := e.DropThreshold; v <= 0 || v > 1 {
		return fmt.Errorf("engine: drop threshold %v outside (0, 1]", v)
	}
	if e.MinAxisMatches < 1 || e.MinAxisMatches > 3 {
		return fmt.Errorf("engine: min axis matches %d outside [1, 3]", e.MinAxisMatches)
	}
	for _, r := range e.Rules.Rules {
		if n := r.axes(); n < e.MinAxisMatches {
			return fmt.Errorf("engine: intent %q uses %d mood axes, needs at least %d", r.Intent, n, e.MinAxisMatches)
		}
	}
	return nil
}

// WriteYAML writes the rule table in the format LoadRules reads.
func (rs RuleSet) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rs); err != nil {
		return fmt.Errorf("rules: encode: %w", err)
	}
	return enc.Close()
}
