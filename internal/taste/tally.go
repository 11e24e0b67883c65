package taste

import (
	"math"
	"sort"
)

// tally is a weighted vote over string candidates. Scores are integer
// hundredths so that folding is commutative and exact.
type tally struct {
	scores map[string]int64
	total  int64
}

type scored struct {
	key   string
	score int64
}

func newTally() *tally {
	return &tally{scores: make(map[string]int64)}
}

func (t *tally) add(key string, weight int64) {
	if key == "" || weight <= 0 {
		return
	}
	t.scores[key] += weight
	t.total += weight
}

// ranked orders candidates by score, then by key. The key tie-break keeps
// the result independent of the order votes arrived in.
func (t *tally) ranked() []scored {
	out := make([]scored, 0, len(t.scores))
	for k, s := range t.scores {
		out = append(out, scored{key: k, score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].key < out[j].key
	})
	return out
}

func (t *tally) winner() (scored, bool) {
	r := t.ranked()
	if len(r) == 0 {
		return scored{}, false
	}
	return r[0], true
}

func (t *tally) share(key string) float64 {
	return ratio(t.scores[key], t.total)
}

// confidence is the winning share bucketed into a level.
func (t *tally) confidence() ConfidenceLevel {
	w, ok := t.winner()
	if !ok {
		return Low
	}
	return levelFor(w.score, t.total)
}

// distribution lists every candidate with its share of the total, ranked.
func (t *tally) distribution(decimals int) []Share {
	r := t.ranked()
	out := make([]Share, 0, len(r))
	for _, s := range r {
		w := ratio(s.score, t.total)
		if decimals >= 0 {
			w = round(w, decimals)
		}
		out = append(out, Share{Value: s.key, Weight: w})
	}
	return out
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
