package store

import "time"

// TrackKey identifies a track by artist and name.
type TrackKey struct {
	Artist string
	Name   string
}

// String renders the key the way the annotation service expects songs.
func (k TrackKey) String() string {
	return k.Name + " by " + k.Artist
}

// TopTrack is one row of a user's top-tracks chart for a period.
type TopTrack struct {
	TrackKey
	Rank      int
	PlayCount int
}

// StoredProfile is a serialized taste profile.
type StoredProfile struct {
	ID      string
	User    string
	Created time.Time
	Body    []byte
}
