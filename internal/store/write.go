package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateUser ensures a user exists in the database.
func (s *Store) CreateUser(user string) error {
	row := s.db.QueryRow("SELECT name FROM User WHERE name = ?", user)
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		_, err := s.db.Exec("INSERT INTO User (name) VALUES (?)", user)
		if err != nil {
			return fmt.Errorf("inserting user %q: %w", user, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking user %q: %w", user, err)
	}
	return nil
}

func (s *Store) SetLastUpdated(user string, updated time.Time) error {
	_, err := s.db.Exec("UPDATE User SET last_updated = ? WHERE name = ?", updated, user)
	if err != nil {
		return fmt.Errorf("updating last_updated for %q: %w", user, err)
	}
	return nil
}

// SaveTopTracks replaces the user's chart for period transactionally.
func (s *Store) SaveTopTracks(user, period string, tracks []TopTrack) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM TopTrack WHERE user = ? AND period = ?", user, period); err != nil {
		return fmt.Errorf("clearing %s chart for %q: %w", period, user, err)
	}

	for _, track := range tracks {
		trackID, err := createTrack(tx, track.TrackKey)
		if err != nil {
			return err
		}
		_, err = tx.Exec("INSERT OR REPLACE INTO TopTrack (user, period, track, rank, playcount) VALUES (?, ?, ?, ?, ?)",
			user, period, trackID, track.Rank, track.PlayCount)
		if err != nil {
			return fmt.Errorf("inserting top track %q: %w", track.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveAnnotation stores the raw annotation JSON for a track, replacing any
// earlier one.
func (s *Store) SaveAnnotation(key TrackKey, model string, raw []byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	trackID, err := createTrack(tx, key)
	if err != nil {
		return err
	}
	_, err = tx.Exec("INSERT OR REPLACE INTO Annotation (track, model, raw, annotated) VALUES (?, ?, ?, ?)",
		trackID, model, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving annotation for %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveProfile stores a serialized profile and returns its new id.
func (s *Store) SaveProfile(user string, body []byte) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec("INSERT INTO Profile (id, user, created, body) VALUES (?, ?, ?, ?)",
		id, user, time.Now().UTC(), string(body))
	if err != nil {
		return "", fmt.Errorf("saving profile for %q: %w", user, err)
	}
	return id, nil
}

func createArtist(tx *sql.Tx, name string) error {
	_, err := tx.Exec("INSERT OR IGNORE INTO Artist (name) VALUES (?)", name)
	if err != nil {
		return fmt.Errorf("inserting artist %q: %w", name, err)
	}
	return nil
}

func createTrack(tx *sql.Tx, key TrackKey) (int64, error) {
	if err := createArtist(tx, key.Artist); err != nil {
		return 0, err
	}

	var id int64
	err := tx.QueryRow("SELECT id FROM Track WHERE artist = ? AND name = ?", key.Artist, key.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("checking track %q: %w", key, err)
	}

	res, err := tx.Exec("INSERT INTO Track (artist, name) VALUES (?, ?)", key.Artist, key.Name)
	if err != nil {
		return 0, fmt.Errorf("inserting track %q: %w", key, err)
	}
	return res.LastInsertId()
}
