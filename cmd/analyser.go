/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/taste-tools/internal/taste"
)

type Analysis struct {
	results [][]string
	summary string
}

// Analyser renders one view of a taste profile as a table.
type Analyser interface {
	GetResults(p taste.TasteProfile) (Analysis, error)

	GetName() string
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	if len(a.results) > 1 {
		table := tablewriter.NewWriter(out)
		table.Header(a.results[0])
		for _, row := range a.results[1:] {
			if err := table.Append(row); err != nil {
				return fmt.Sprintf("Error rendering table: %v", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', 2, 64)
}

func formatShares(shares []taste.Share) string {
	parts := make([]string, len(shares))
	for i, s := range shares {
		parts[i] = fmt.Sprintf("%s (%s)", s.Value, formatWeight(s.Weight))
	}
	return strings.Join(parts, ", ")
}

type SummaryAnalyzer struct{}

func (s SummaryAnalyzer) GetName() string {
	return "Taste summary"
}

func (s SummaryAnalyzer) GetResults(p taste.TasteProfile) (Analysis, error) {
	physics := p.AudioPhysicsProfile
	genres := p.GenreProfile
	results := [][]string{
		{"Dimension", "Summary", "Confidence"},
		{"Energy", string(physics.EnergyBias), string(physics.Confidence)},
		{"Tempo", string(physics.TempoBias), string(physics.Confidence)},
		{"Danceability", string(physics.DanceabilityBias), string(physics.Confidence)},
		{"Vocals", string(physics.VocalsBias), string(physics.Confidence)},
		{"Texture", string(physics.TextureBias), string(physics.Confidence)},
		{"Genres (" + string(genres.Type) + ")", strings.Join(genres.PrimaryGenres, ", "), string(genres.Confidence)},
		{"Emotional", moodSummary(p.EmotionalMoodProfile), string(p.EmotionalMoodProfile.Confidence)},
		{"Cognitive", moodSummary(p.CognitiveMoodProfile), string(p.CognitiveMoodProfile.Confidence)},
		{"Somatic", moodSummary(p.SomaticMoodProfile), string(p.SomaticMoodProfile.Confidence)},
		{"Language", formatShares(p.LanguageProfile.Distribution), string(p.LanguageProfile.Confidence)},
	}
	summary := fmt.Sprintf("%d tracks, overall confidence %s", p.TrackCount, p.OverallProfileConfidence)
	return Analysis{results: results, summary: summary}, nil
}

func moodSummary(m taste.MoodProfile) string {
	if m.Primary == "" {
		return "-"
	}
	if len(m.Secondary) == 0 {
		return m.Primary
	}
	return m.Primary + " (also " + strings.Join(m.Secondary, ", ") + ")"
}

type IntentsAnalyzer struct{}

func (i IntentsAnalyzer) GetName() string {
	return "Listening intents"
}

func (i IntentsAnalyzer) GetResults(p taste.TasteProfile) (Analysis, error) {
	results := [][]string{{"Intent", "Weight", "Confidence", "Tracks", "Genres", "Examples"}}
	for _, intent := range p.IntentsRanked {
		examples := make([]string, len(intent.ExampleTracks))
		for j, t := range intent.ExampleTracks {
			examples[j] = t.String()
		}
		results = append(results, []string{
			intent.Name,
			formatWeight(intent.Weight),
			string(intent.Confidence),
			strconv.Itoa(intent.TrackCount),
			strings.Join(intent.GenreHints, ", "),
			strings.Join(examples, "; "),
		})
	}

	summary := fmt.Sprintf("%d intents", len(p.IntentsRanked))
	if len(p.IntentsRanked) == 0 {
		summary = "No intent has enough mood evidence."
	}
	return Analysis{results: results, summary: summary}, nil
}

type ArtistsAnalyzer struct{}

func (a ArtistsAnalyzer) GetName() string {
	return "Representative artists"
}

func (a ArtistsAnalyzer) GetResults(p taste.TasteProfile) (Analysis, error) {
	results := [][]string{{"Artist", "Score", "Tracks"}}
	for _, artist := range p.ArtistExamples {
		results = append(results, []string{artist.Name, formatWeight(artist.Score), strconv.Itoa(artist.Tracks)})
	}
	return Analysis{results: results, summary: fmt.Sprintf("%d artists", len(p.ArtistExamples))}, nil
}

type GenresAnalyzer struct{}

func (g GenresAnalyzer) GetName() string {
	return "Genres"
}

func (g GenresAnalyzer) GetResults(p taste.TasteProfile) (Analysis, error) {
	results := [][]string{{"Genre", "Share", "Role"}}
	primary := make(map[string]bool)
	for _, name := range p.GenreProfile.PrimaryGenres {
		primary[name] = true
	}
	for _, s := range p.GenreProfile.Distribution {
		role := "secondary"
		if primary[s.Value] {
			role = "primary"
		}
		results = append(results, []string{s.Value, formatWeight(s.Weight), role})
	}
	summary := fmt.Sprintf("Genre taste is %s", p.GenreProfile.Type)
	return Analysis{results: results, summary: summary}, nil
}

func getActionFromName(actionName string) (Analyser, error) {
	actionMap := map[string]Analyser{
		"summary": SummaryAnalyzer{},
		"intents": IntentsAnalyzer{},
		"artists": ArtistsAnalyzer{},
		"genres":  GenresAnalyzer{},
	}

	action, ok := actionMap[actionName]
	if !ok {
		return nil, fmt.Errorf("Invalid analysis_name: %s", actionName)
	}

	return action, nil
}
