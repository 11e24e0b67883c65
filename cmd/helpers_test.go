package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ademuri/taste-tools/internal/store"
	"github.com/ademuri/taste-tools/internal/taste"
)

const testUser = "testuser"

func createTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "taste.db")

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New(%s) error: %v", dbPath, err)
	}
	if err := db.CreateUser(testUser); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	return db, dbPath
}

func chartTracks(t *testing.T, db *store.Store, keys ...store.TrackKey) {
	t.Helper()
	tracks := make([]store.TopTrack, len(keys))
	for i, key := range keys {
		tracks[i] = store.TopTrack{TrackKey: key, Rank: i + 1, PlayCount: 100 - i}
	}
	if err := db.SaveTopTracks(testUser, "overall", tracks); err != nil {
		t.Fatalf("SaveTopTracks error: %v", err)
	}
}

func attribute(value, confidence string) taste.RawAttribute {
	return taste.RawAttribute{Value: value, Confidence: confidence}
}

func tagList(confidence string, values ...string) taste.RawTagList {
	return taste.RawTagList{Values: values, Confidence: confidence}
}

// seedAnnotatedStore stores three charted, annotated tracks. The profile
// built from them has a single "focus" intent.
func seedAnnotatedStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	db, dbPath := createTestStore(t)

	annotations := []taste.RawTrackAnnotation{
		{
			SongName:     "Track A",
			ArtistName:   "Artist A",
			AudioPhysics: taste.RawAudioPhysics{EnergyLevel: attribute("high", "high")},
			SemanticTags: taste.RawSemanticTags{
				PrimaryGenre:  attribute("pop", "high"),
				EmotionalTags: tagList("high", "energized"),
				CognitiveTags: tagList("medium", "focused"),
			},
		},
		{
			SongName:     "Track B",
			ArtistName:   "Artist B",
			AudioPhysics: taste.RawAudioPhysics{EnergyLevel: attribute("medium", "medium")},
			SemanticTags: taste.RawSemanticTags{
				PrimaryGenre:  attribute("pop", "medium"),
				EmotionalTags: tagList("low", "calm"),
			},
		},
		{
			SongName:     "Track C",
			ArtistName:   "Artist C",
			SemanticTags: taste.RawSemanticTags{PrimaryGenre: attribute("jazz", "low")},
		},
	}

	var keys []store.TrackKey
	for _, a := range annotations {
		keys = append(keys, store.TrackKey{Artist: a.ArtistName, Name: a.SongName})
	}
	chartTracks(t, db, keys...)

	for i, a := range annotations {
		raw, err := json.Marshal(a)
		if err != nil {
			t.Fatalf("json.Marshal error: %v", err)
		}
		if err := db.SaveAnnotation(keys[i], "test-model", raw); err != nil {
			t.Fatalf("SaveAnnotation error: %v", err)
		}
	}
	return db, dbPath
}
