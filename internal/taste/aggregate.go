package taste

import (
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrNilCorpus is returned when BuildProfile is handed a nil corpus. An
// empty, non-nil corpus is valid and yields the default profile.
var ErrNilCorpus = errors.New("taste: nil corpus")

const (
	maxTracksPerArtist = 2
	artistExampleCount = 5

	focusedShare       = 0.20
	focusedKeepShare   = 0.10
	diverseKeepCount   = 5
	fallbackGenreCount = 3
	primaryGenreCount  = 3
	secondaryGenreCnt  = 5

	secondaryMoodCount = 2
	languageDecimals   = 2
)

// Engine holds the tunables of one aggregation run. The zero value is not
// useful; start from DefaultEngine.
type Engine struct {
	Rules RuleSet

	// EligibilityThreshold is the minimum aggregated share a mood tag needs
	// before a rule may use it.
	EligibilityThreshold float64
	// MinAxisMatches is how many referenced axes a track must match.
	MinAxisMatches int
	// DropThreshold removes intents whose normalized weight is lower.
	DropThreshold float64
}

func DefaultEngine() Engine {
	return Engine{
		Rules:                DefaultRules(),
		EligibilityThreshold: 0.15,
		MinAxisMatches:       2,
		DropThreshold:        0.15,
	}
}

// Aggregate builds a profile with the default engine.
func Aggregate(corpus []RawTrackAnnotation) (TasteProfile, error) {
	return DefaultEngine().BuildProfile(corpus)
}

// BuildProfile folds a corpus into a TasteProfile. It is pure: the result
// depends only on the multiset of annotations, not their order.
func (e Engine) BuildProfile(corpus []RawTrackAnnotation) (TasteProfile, error) {
	if corpus == nil {
		return TasteProfile{}, ErrNilCorpus
	}
	if err := e.Validate(); err != nil {
		return TasteProfile{}, err
	}

	tracks := make([]NormalizedTrackAnnotation, len(corpus))
	for i := range corpus {
		tracks[i] = Normalize(corpus[i])
	}

	dims := aggregateDimensions(tracks)
	profile := dims.compose()
	profile.IntentsRanked = e.DeriveIntents(dims.moods(), tracks)
	return profile, nil
}

type dimensions struct {
	trackCount int
	artists    []ArtistExample
	genres     GenreProfile
	physics    AudioPhysicsProfile
	emotional  MoodProfile
	cognitive  MoodProfile
	somatic    MoodProfile
	language   LanguageProfile
}

func (d dimensions) moods() MoodProfiles {
	return MoodProfiles{Emotional: d.emotional, Cognitive: d.cognitive, Somatic: d.somatic}
}

// aggregateDimensions runs the independent folds concurrently. Each writes
// only its own field.
func aggregateDimensions(tracks []NormalizedTrackAnnotation) dimensions {
	d := dimensions{trackCount: len(tracks)}

	var g errgroup.Group
	g.Go(func() error { d.artists = aggregateArtists(tracks); return nil })
	g.Go(func() error { d.genres = aggregateGenres(tracks); return nil })
	g.Go(func() error { d.physics = aggregatePhysics(tracks); return nil })
	g.Go(func() error {
		d.emotional = aggregateMood(tracks, func(t NormalizedTrackAnnotation) TagSet { return t.Emotional })
		return nil
	})
	g.Go(func() error {
		d.cognitive = aggregateMood(tracks, func(t NormalizedTrackAnnotation) TagSet { return t.Cognitive })
		return nil
	})
	g.Go(func() error {
		d.somatic = aggregateMood(tracks, func(t NormalizedTrackAnnotation) TagSet { return t.Somatic })
		return nil
	})
	g.Go(func() error { d.language = aggregateLanguage(tracks); return nil })
	_ = g.Wait()

	return d
}

func (d dimensions) compose() TasteProfile {
	return TasteProfile{
		TrackCount:           d.trackCount,
		LanguageProfile:      d.language,
		AudioPhysicsProfile:  d.physics,
		GenreProfile:         d.genres,
		EmotionalMoodProfile: d.emotional,
		CognitiveMoodProfile: d.cognitive,
		SomaticMoodProfile:   d.somatic,
		OverallProfileConfidence: OverallConfidence(SubConfidences{
			AudioPhysics:  d.physics.Confidence,
			Genre:         d.genres.Confidence,
			EmotionalMood: d.emotional.Confidence,
			CognitiveMood: d.cognitive.Confidence,
			SomaticMood:   d.somatic.Confidence,
			Language:      d.language.Confidence,
		}),
		IntentsRanked:  []Intent{},
		ArtistExamples: d.artists,
	}
}

// aggregateArtists ranks artists by a flat per-track weight, counting at
// most maxTracksPerArtist tracks for any one artist.
func aggregateArtists(tracks []NormalizedTrackAnnotation) []ArtistExample {
	type artist struct {
		name   string
		tracks int
	}
	byKey := make(map[string]*artist)
	for _, t := range tracks {
		key := strings.ToLower(t.ArtistName)
		if key == "" {
			continue
		}
		a, ok := byKey[key]
		if !ok {
			a = &artist{name: t.ArtistName}
			byKey[key] = a
		}
		// Spelling variants collapse to the smallest one.
		if t.ArtistName < a.name {
			a.name = t.ArtistName
		}
		a.tracks++
	}

	votes := newTally()
	for key, a := range byKey {
		votes.add(key, int64(min(a.tracks, maxTracksPerArtist))*High.centi())
	}

	ranked := votes.ranked()
	out := make([]ArtistExample, 0, artistExampleCount)
	for _, s := range ranked {
		if len(out) == artistExampleCount {
			break
		}
		a := byKey[s.key]
		out = append(out, ArtistExample{Name: a.name, Score: float64(s.score) / 100, Tracks: a.tracks})
	}
	return out
}

// aggregateGenres folds primary genres at full weight and secondary genres
// at half weight into one shared score table.
func aggregateGenres(tracks []NormalizedTrackAnnotation) GenreProfile {
	votes := newTally()
	asPrimary := make(map[string]bool)
	asSecondary := make(map[string]bool)

	for _, t := range tracks {
		primary := t.PrimaryGenre.Value
		if !t.PrimaryGenre.Missing {
			votes.add(primary, t.PrimaryGenre.Confidence.centi())
			asPrimary[primary] = true
		}
		half := t.SecondaryGenres.Confidence.centi() / 2
		for _, g := range t.SecondaryGenres.Tags {
			if g == primary {
				continue
			}
			votes.add(g, half)
			asSecondary[g] = true
		}
	}

	profile := GenreProfile{
		Type:            GenreDiverse,
		PrimaryGenres:   []string{},
		SecondaryGenres: []string{},
		Distribution:    votes.distribution(-1),
		Confidence:      votes.confidence(),
	}

	ranked := votes.ranked()
	if len(ranked) == 0 {
		return profile
	}

	var kept []scored
	if ratio(ranked[0].score, votes.total) >= focusedShare {
		profile.Type = GenreFocused
		for _, s := range ranked {
			if ratio(s.score, votes.total) >= focusedKeepShare {
				kept = append(kept, s)
			}
		}
	} else {
		kept = ranked[:min(diverseKeepCount, len(ranked))]
	}
	if len(kept) == 0 {
		kept = ranked[:min(fallbackGenreCount, len(ranked))]
	}

	inPrimary := make(map[string]bool)
	for _, s := range kept {
		if asPrimary[s.key] && len(profile.PrimaryGenres) < primaryGenreCount {
			profile.PrimaryGenres = append(profile.PrimaryGenres, s.key)
			inPrimary[s.key] = true
		}
	}
	for _, s := range kept {
		if asSecondary[s.key] && !inPrimary[s.key] && len(profile.SecondaryGenres) < secondaryGenreCnt {
			profile.SecondaryGenres = append(profile.SecondaryGenres, s.key)
		}
	}
	return profile
}

// physicsVotes tallies the five sub-attributes for a set of tracks.
type physicsVotes struct {
	energy, tempo, danceability, vocals, texture *tally
}

func newPhysicsVotes() physicsVotes {
	return physicsVotes{
		energy:       newTally(),
		tempo:        newTally(),
		danceability: newTally(),
		vocals:       newTally(),
		texture:      newTally(),
	}
}

func (p physicsVotes) add(t NormalizedTrackAnnotation) {
	addRated(p.energy, Rated[Energy]{Value: collapseEnergy(t.Energy.Value), Confidence: t.Energy.Confidence, Missing: t.Energy.Missing})
	addRated(p.tempo, t.Tempo)
	addRated(p.danceability, t.Danceability)
	addRated(p.vocals, t.Vocals)
	addRated(p.texture, t.Texture)
}

func (p physicsVotes) all() []*tally {
	return []*tally{p.energy, p.tempo, p.danceability, p.vocals, p.texture}
}

func addRated[T ~string](t *tally, r Rated[T]) {
	if r.Missing {
		return
	}
	t.add(string(r.Value), r.Confidence.centi())
}

// collapseEnergy folds the intermediate energy buckets into their
// neighbours for voting.
func collapseEnergy(e Energy) Energy {
	switch e {
	case EnergyLowMedium:
		return EnergyLow
	case EnergyMediumHigh:
		return EnergyHigh
	default:
		return e
	}
}

func winnerOr[T ~string](t *tally, def T) T {
	if w, ok := t.winner(); ok {
		return T(w.key)
	}
	return def
}

func aggregatePhysics(tracks []NormalizedTrackAnnotation) AudioPhysicsProfile {
	votes := newPhysicsVotes()
	for _, t := range tracks {
		votes.add(t)
	}

	// The profile confidence is the mean winning share over the
	// sub-attributes that received votes.
	var sum float64
	var voted int
	for _, t := range votes.all() {
		if w, ok := t.winner(); ok {
			sum += ratio(w.score, t.total)
			voted++
		}
	}
	confidence := Low
	if voted > 0 {
		confidence = LevelForShare(sum / float64(voted))
	}

	return AudioPhysicsProfile{
		EnergyBias:       winnerOr(votes.energy, DefaultEnergy),
		TempoBias:        winnerOr(votes.tempo, DefaultTempo),
		DanceabilityBias: winnerOr(votes.danceability, DefaultDanceability),
		VocalsBias:       winnerOr(votes.vocals, DefaultVocals),
		TextureBias:      winnerOr(votes.texture, DefaultTexture),
		Confidence:       confidence,
	}
}

func aggregateMood(tracks []NormalizedTrackAnnotation, axis func(NormalizedTrackAnnotation) TagSet) MoodProfile {
	votes := newTally()
	for _, t := range tracks {
		set := axis(t)
		w := set.Confidence.centi()
		for _, tag := range set.Tags {
			votes.add(tag, w)
		}
	}

	profile := MoodProfile{
		Secondary:    []string{},
		Distribution: votes.distribution(-1),
		Confidence:   votes.confidence(),
	}
	for i, s := range votes.ranked() {
		switch {
		case i == 0:
			profile.Primary = s.key
		case i <= secondaryMoodCount:
			profile.Secondary = append(profile.Secondary, s.key)
		}
	}
	return profile
}

func aggregateLanguage(tracks []NormalizedTrackAnnotation) LanguageProfile {
	votes := newTally()
	for _, t := range tracks {
		if !t.Language.Missing {
			votes.add(t.Language.Value, t.Language.Confidence.centi())
		}
	}
	return LanguageProfile{
		Distribution: votes.distribution(languageDecimals),
		Confidence:   votes.confidence(),
	}
}
