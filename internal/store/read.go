package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ademuri/taste-tools/internal/taste"
)

func (s *Store) GetLastUpdated(user string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_updated FROM User WHERE name = ?", user)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last updated: %w", err)
	}
	return t.Time, nil
}

// GetTopTracks returns the user's chart for period ordered by rank. A
// limit <= 0 returns every row.
func (s *Store) GetTopTracks(user, period string, limit int) ([]TopTrack, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
	SELECT Track.artist, Track.name, TopTrack.rank, TopTrack.playcount
	FROM TopTrack
	INNER JOIN Track ON Track.id = TopTrack.track
	WHERE TopTrack.user = ? AND TopTrack.period = ?
	ORDER BY TopTrack.rank, Track.artist, Track.name
	LIMIT ?
	`
	rows, err := s.db.Query(query, user, period, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top tracks: %w", err)
	}
	defer rows.Close()

	var results []TopTrack
	for rows.Next() {
		var t TopTrack
		if err := rows.Scan(&t.Artist, &t.Name, &t.Rank, &t.PlayCount); err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// GetTracksNeedingAnnotation lists the user's charted tracks that have no
// stored annotation, best ranked first.
func (s *Store) GetTracksNeedingAnnotation(user string, limit int) ([]TrackKey, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
	SELECT Track.artist, Track.name
	FROM TopTrack
	INNER JOIN Track ON Track.id = TopTrack.track
	LEFT JOIN Annotation ON Annotation.track = Track.id
	WHERE TopTrack.user = ? AND Annotation.track IS NULL
	GROUP BY Track.id
	ORDER BY MIN(TopTrack.rank), Track.artist, Track.name
	LIMIT ?
	`
	rows, err := s.db.Query(query, user, limit)
	if err != nil {
		return nil, fmt.Errorf("querying unannotated tracks: %w", err)
	}
	defer rows.Close()

	var results []TrackKey
	for rows.Next() {
		var k TrackKey
		if err := rows.Scan(&k.Artist, &k.Name); err != nil {
			return nil, err
		}
		results = append(results, k)
	}
	return results, rows.Err()
}

// GetAnnotations decodes every stored annotation of the user's charted
// tracks. Rows that are not JSON objects are skipped and counted. The
// returned slice is never nil.
func (s *Store) GetAnnotations(user string) ([]taste.RawTrackAnnotation, int, error) {
	query := `
	SELECT DISTINCT Track.artist, Track.name, Annotation.raw
	FROM TopTrack
	INNER JOIN Track ON Track.id = TopTrack.track
	INNER JOIN Annotation ON Annotation.track = Track.id
	WHERE TopTrack.user = ?
	ORDER BY Track.artist, Track.name
	`
	rows, err := s.db.Query(query, user)
	if err != nil {
		return nil, 0, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	results := []taste.RawTrackAnnotation{}
	skipped := 0
	for rows.Next() {
		var key TrackKey
		var raw string
		if err := rows.Scan(&key.Artist, &key.Name, &raw); err != nil {
			return nil, 0, err
		}

		var a taste.RawTrackAnnotation
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			skipped++
			continue
		}
		// Fill identity from the stored key when the annotation omits it.
		if a.SongName == "" {
			a.SongName = key.Name
		}
		if a.ArtistName == "" {
			a.ArtistName = key.Artist
		}
		results = append(results, a)
	}
	return results, skipped, rows.Err()
}

// GetLatestProfile returns the most recently saved profile of user, or
// ErrNotFound.
func (s *Store) GetLatestProfile(user string) (StoredProfile, error) {
	row := s.db.QueryRow("SELECT id, user, created, body FROM Profile WHERE user = ? ORDER BY created DESC, rowid DESC LIMIT 1", user)
	var p StoredProfile
	var body string
	err := row.Scan(&p.ID, &p.User, &p.Created, &body)
	if err == sql.ErrNoRows {
		return StoredProfile{}, ErrNotFound
	}
	if err != nil {
		return StoredProfile{}, fmt.Errorf("getting latest profile: %w", err)
	}
	p.Body = []byte(body)
	return p, nil
}
