package textutil

import (
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Similarity returns a score in [0, 1] for how alike two names are, a name
// contained in the other scores 1.
func Similarity(a, b string) float64 {
	a = NormalizeName(a)
	b = NormalizeName(b)
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 1
	}
	return matchr.JaroWinkler(a, b, false)
}

type Match struct {
	Value string
	Score float64
}

// FuzzyMatches returns the candidates scoring at least threshold against query,
// best first.
func FuzzyMatches(query string, candidates []string, threshold float64) []Match {
	var matches []Match
	for _, c := range candidates {
		score := Similarity(query, c)
		if score < threshold {
			continue
		}
		matches = append(matches, Match{Value: c, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
