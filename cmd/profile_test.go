package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ademuri/taste-tools/internal/store"
	"github.com/ademuri/taste-tools/internal/taste"
)

func TestBuildProfile(t *testing.T) {
	db, _ := seedAnnotatedStore(t)
	defer db.Close()

	p, err := buildProfile(db, testUser, taste.DefaultEngine())
	if err != nil {
		t.Fatalf("buildProfile error: %v", err)
	}
	if p.TrackCount != 3 {
		t.Errorf("TrackCount = %d, want 3", p.TrackCount)
	}
	if len(p.IntentsRanked) != 1 || p.IntentsRanked[0].Name != "focus" {
		t.Errorf("intents = %+v, want only focus", p.IntentsRanked)
	}
}

func TestBuildProfileNoAnnotations(t *testing.T) {
	db, _ := createTestStore(t)
	defer db.Close()

	p, err := buildProfile(db, testUser, taste.DefaultEngine())
	if err != nil {
		t.Fatalf("buildProfile error: %v", err)
	}
	if p.TrackCount != 0 || p.OverallProfileConfidence != taste.Low {
		t.Errorf("profile = %+v, want empty with low confidence", p)
	}
}

func TestWriteProfileFormats(t *testing.T) {
	db, _ := seedAnnotatedStore(t)
	defer db.Close()
	p, err := buildProfile(db, testUser, taste.DefaultEngine())
	if err != nil {
		t.Fatalf("buildProfile error: %v", err)
	}

	out := new(bytes.Buffer)
	if err := writeProfile(out, p, "yaml"); err != nil {
		t.Fatalf("writeProfile(yaml) error: %v", err)
	}
	var fromYAML taste.TasteProfile
	if err := yaml.Unmarshal(out.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal error: %v", err)
	}
	if fromYAML.TrackCount != 3 || !strings.Contains(out.String(), "intent: focus") {
		t.Errorf("yaml output does not describe the profile:\n%s", out)
	}

	out.Reset()
	if err := writeProfile(out, p, "json"); err != nil {
		t.Fatalf("writeProfile(json) error: %v", err)
	}
	var fromJSON taste.TasteProfile
	if err := json.Unmarshal(out.Bytes(), &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	if fromJSON.GenreProfile.Type != p.GenreProfile.Type || len(fromJSON.IntentsRanked) != 1 {
		t.Errorf("json output = %+v, want %+v", fromJSON, p)
	}

	out.Reset()
	if err := writeProfile(out, p, "table"); err != nil {
		t.Fatalf("writeProfile(table) error: %v", err)
	}
	for _, want := range []string{"Taste summary:", "Listening intents:", "focus", "Artist A"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRunProfileSave(t *testing.T) {
	db, dbPath := seedAnnotatedStore(t)
	db.Close()

	config := ProfileConfig{DbPath: dbPath, User: testUser, Format: "yaml", Save: true}
	if err := runProfile(config, new(bytes.Buffer)); err != nil {
		t.Fatalf("runProfile error: %v", err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New error: %v", err)
	}
	defer db.Close()
	stored, err := db.GetLatestProfile(testUser)
	if errors.Is(err, store.ErrNotFound) {
		t.Fatal("profile was not saved")
	}
	if err != nil {
		t.Fatalf("GetLatestProfile error: %v", err)
	}

	var p taste.TasteProfile
	if err := json.Unmarshal(stored.Body, &p); err != nil {
		t.Fatalf("decoding saved profile: %v", err)
	}
	if p.TrackCount != 3 {
		t.Errorf("saved TrackCount = %d, want 3", p.TrackCount)
	}
}

func TestIntentsAnalyzer(t *testing.T) {
	p := taste.TasteProfile{
		IntentsRanked: []taste.Intent{{
			Name:          "comfort",
			Weight:        0.75,
			Confidence:    taste.High,
			TrackCount:    4,
			GenreHints:    []string{"folk", "indie"},
			ExampleTracks: []taste.TrackRef{{Song: "Song", Artist: "Band"}},
		}},
	}
	analysis, err := IntentsAnalyzer{}.GetResults(p)
	if err != nil {
		t.Fatalf("GetResults error: %v", err)
	}
	want := []string{"comfort", "0.75", "high", "4", "folk, indie", "Song by Band"}
	if len(analysis.results) != 2 || strings.Join(analysis.results[1], "|") != strings.Join(want, "|") {
		t.Errorf("results = %v, want row %v", analysis.results, want)
	}

	empty, err := IntentsAnalyzer{}.GetResults(taste.TasteProfile{})
	if err != nil {
		t.Fatalf("GetResults error: %v", err)
	}
	if !strings.Contains(empty.String(), "No intent has enough mood evidence.") {
		t.Errorf("empty analysis = %q", empty.String())
	}
}

func TestGetActionFromName(t *testing.T) {
	for _, name := range []string{"summary", "intents", "artists", "genres"} {
		if _, err := getActionFromName(name); err != nil {
			t.Errorf("getActionFromName(%q) error: %v", name, err)
		}
	}
	if _, err := getActionFromName("top-albums"); err == nil {
		t.Error("getActionFromName(top-albums) succeeded, want error")
	}
}

func TestRunProfileMixedCaseUser(t *testing.T) {
	db, dbPath := seedAnnotatedStore(t)
	db.Close()

	out := new(bytes.Buffer)
	config := ProfileConfig{DbPath: dbPath, User: "TestUser", Format: "json"}
	if err := runProfile(config, out); err != nil {
		t.Fatalf("runProfile error: %v", err)
	}

	var p taste.TasteProfile
	if err := json.Unmarshal(out.Bytes(), &p); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	if p.TrackCount != 3 || len(p.IntentsRanked) != 1 {
		t.Errorf("track_count=%d intents=%d, want 3 tracks and 1 intent", p.TrackCount, len(p.IntentsRanked))
	}
}
