package taste

import (
	"sort"
	"strings"
)

const (
	evidenceTagCount  = 3
	tagExampleCount   = 2
	genreHintCount    = 3
	exampleTrackCount = 3

	// Per-track scores are held in 1/600ths so that the mean over one, two
	// or three axes of centi weights stays an integer.
	unitsPerCenti = 6
	unitsPerScore = 100 * unitsPerCenti
)

type axis int

const (
	axisEmotional axis = iota
	axisCognitive
	axisSomatic
	axisCount
)

func (r Rule) tags(a axis) []string {
	switch a {
	case axisEmotional:
		return r.Emotional
	case axisCognitive:
		return r.Cognitive
	default:
		return r.Somatic
	}
}

// axes counts the mood axes the rule references.
func (r Rule) axes() int {
	n := 0
	for a := axisEmotional; a < axisCount; a++ {
		if len(r.tags(a)) > 0 {
			n++
		}
	}
	return n
}

func (t NormalizedTrackAnnotation) mood(a axis) TagSet {
	switch a {
	case axisEmotional:
		return t.Emotional
	case axisCognitive:
		return t.Cognitive
	default:
		return t.Somatic
	}
}

func (m MoodProfiles) axis(a axis) MoodProfile {
	switch a {
	case axisEmotional:
		return m.Emotional
	case axisCognitive:
		return m.Cognitive
	default:
		return m.Somatic
	}
}

// eligibility holds, per referenced axis, the rule tags whose aggregated
// share clears the gate. Unreferenced axes are nil.
type eligibility [axisCount]map[string]bool

// trackMatch is one track that fired a rule.
type trackMatch struct {
	track NormalizedTrackAnnotation
	units int64
	tags  [axisCount][]string
}

func (m trackMatch) ref() TrackRef {
	return TrackRef{Song: m.track.SongName, Artist: m.track.ArtistName}
}

// eligible reports which of the rule's tags are common enough in the
// aggregated moods to be used. A rule with any referenced axis left
// without an eligible tag never fires.
func (e Engine) eligible(r Rule, moods MoodProfiles) (eligibility, bool) {
	var out eligibility
	for a := axisEmotional; a < axisCount; a++ {
		tags := r.tags(a)
		if len(tags) == 0 {
			continue
		}
		profile := moods.axis(a)
		ok := make(map[string]bool)
		for _, tag := range tags {
			if profile.Weight(tag) >= e.EligibilityThreshold {
				ok[tag] = true
			}
		}
		if len(ok) == 0 {
			return eligibility{}, false
		}
		out[a] = ok
	}
	return out, out[axisEmotional] != nil
}

func (e Engine) match(el eligibility, t NormalizedTrackAnnotation) (trackMatch, bool) {
	m := trackMatch{track: t}
	var matched int
	var sum int64
	for a := axisEmotional; a < axisCount; a++ {
		if el[a] == nil {
			continue
		}
		set := t.mood(a)
		for _, tag := range set.Tags {
			if el[a][tag] {
				m.tags[a] = append(m.tags[a], tag)
			}
		}
		if len(m.tags[a]) > 0 {
			matched++
			sum += set.Confidence.centi()
		}
	}

	if len(m.tags[axisEmotional]) == 0 || matched < e.MinAxisMatches {
		return trackMatch{}, false
	}
	m.units = sum * unitsPerCenti / int64(matched)
	return m, true
}

// DeriveIntents applies the rule table to the tracks, gated by the
// aggregated mood distributions. Intents whose share of the total intent
// score is below DropThreshold are removed; the rest are ranked by weight.
func (e Engine) DeriveIntents(moods MoodProfiles, tracks []NormalizedTrackAnnotation) []Intent {
	type candidate struct {
		rule    Rule
		matches []trackMatch
		units   int64
	}

	var candidates []candidate
	var total int64
	for _, r := range e.Rules.Rules {
		el, ok := e.eligible(r, moods)
		if !ok {
			continue
		}
		c := candidate{rule: r}
		for _, t := range tracks {
			if m, ok := e.match(el, t); ok {
				c.matches = append(c.matches, m)
				c.units += m.units
			}
		}
		if c.units == 0 {
			continue
		}
		candidates = append(candidates, c)
		total += c.units
	}

	intents := []Intent{}
	for _, c := range candidates {
		weight := ratio(c.units, total)
		if weight < e.DropThreshold {
			continue
		}
		sortMatches(c.matches)
		intents = append(intents, Intent{
			Name:       c.rule.Intent,
			Score:      float64(c.units) / unitsPerScore,
			Weight:     weight,
			Confidence: LevelForShare(weight),
			TrackCount: len(c.matches),
			Evidence: IntentEvidence{
				Emotional: tagEvidence(c.matches, axisEmotional),
				Cognitive: tagEvidence(c.matches, axisCognitive),
				Somatic:   tagEvidence(c.matches, axisSomatic),
			},
			GenreHints:         genreHints(c.matches),
			PhysicsConstraints: physicsConstraints(c.matches),
			ExampleTracks:      exampleTracks(c.matches),
		})
	}

	sort.Slice(intents, func(i, j int) bool {
		if intents[i].Weight != intents[j].Weight {
			return intents[i].Weight > intents[j].Weight
		}
		return intents[i].Name < intents[j].Name
	})
	return intents
}

// sortMatches orders matches by score, then by song and artist.
func sortMatches(ms []trackMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if a.units != b.units {
			return a.units > b.units
		}
		if a.track.SongName != b.track.SongName {
			return a.track.SongName < b.track.SongName
		}
		return a.track.ArtistName < b.track.ArtistName
	})
}

func tagEvidence(ms []trackMatch, a axis) []TagEvidence {
	votes := newTally()
	for _, m := range ms {
		w := m.track.mood(a).Confidence.centi()
		for _, tag := range m.tags[a] {
			votes.add(tag, w)
		}
	}

	out := []TagEvidence{}
	for _, s := range votes.ranked() {
		if len(out) == evidenceTagCount {
			break
		}
		ev := TagEvidence{Tag: s.key, Weight: ratio(s.score, votes.total), Examples: []TrackRef{}}
		for _, m := range ms {
			for _, tag := range m.tags[a] {
				if tag == s.key {
					ev.Examples = appendRef(ev.Examples, m.ref(), tagExampleCount)
				}
			}
		}
		out = append(out, ev)
	}
	return out
}

func genreHints(ms []trackMatch) []string {
	counts := newTally()
	for _, m := range ms {
		if !m.track.PrimaryGenre.Missing {
			counts.add(m.track.PrimaryGenre.Value, 1)
		}
	}
	out := []string{}
	for _, s := range counts.ranked() {
		if len(out) == genreHintCount {
			break
		}
		out = append(out, s.key)
	}
	return out
}

func physicsConstraints(ms []trackMatch) PhysicsConstraints {
	votes := newPhysicsVotes()
	for _, m := range ms {
		votes.add(m.track)
	}
	return PhysicsConstraints{
		Energy:       winnerOr[Energy](votes.energy, ""),
		Tempo:        winnerOr[Tempo](votes.tempo, ""),
		Danceability: winnerOr[Danceability](votes.danceability, ""),
		Vocals:       winnerOr[Vocals](votes.vocals, ""),
		Texture:      winnerOr[Texture](votes.texture, ""),
	}
}

func exampleTracks(ms []trackMatch) []TrackRef {
	out := []TrackRef{}
	for _, m := range ms {
		out = appendRef(out, m.ref(), exampleTrackCount)
	}
	return out
}

// appendRef appends ref unless the list is full or already names the same
// track, ignoring case.
func appendRef(refs []TrackRef, ref TrackRef, limit int) []TrackRef {
	if len(refs) >= limit {
		return refs
	}
	for _, r := range refs {
		if strings.EqualFold(r.Song, ref.Song) && strings.EqualFold(r.Artist, ref.Artist) {
			return refs
		}
	}
	return append(refs, ref)
}
