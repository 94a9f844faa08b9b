package regions

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// MinSimilarity is the lowest Nearest score at which a free-form name is
// taken to be a misspelling of the matched directory entry.
const MinSimilarity = 0.85

// Match is a directory entry scored against a free-form region name.
type Match struct {
	Code  string
	Name  string
	Score float64
}

// Nearest returns the directory entry closest to name. The score is the
// better of Jaro-Winkler and a length-normalized Levenshtein similarity,
// in [0, 1]. It feeds data-quality counters only and never changes
// rendered addresses.
func (d *Directory) Nearest(name string) (Match, bool) {
	if name == "" || len(d.codes) == 0 {
		return Match{}, false
	}

	best := Match{Score: -1}
	for _, code := range d.codes {
		official := d.names[code]
		score := similarity(name, official)
		if score > best.Score {
			best = Match{Code: code, Name: official, Score: score}
		}
	}
	return best, true
}

func similarity(a, b string) float64 {
	jw := smetrics.JaroWinkler(a, b, 0.7, 4)

	dist := levenshtein.ComputeDistance(a, b)
	maxLen := math.Max(float64(utf8.RuneCountInString(a)), float64(utf8.RuneCountInString(b)))
	lev := 0.0
	if maxLen > 0 {
		lev = 1.0 - float64(dist)/maxLen
	}

	return math.Max(jw, lev)
}
