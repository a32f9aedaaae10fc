package textutil

import (
	"regexp"
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

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// Closest returns the candidate most similar to name by Jaro-Winkler similarity over
// normalized names, ok is false when no candidate reaches threshold.
func Closest(name string, candidates []string, threshold float64) (string, bool) {
	target := NormalizeName(name)
	if target == "" {
		return "", false
	}

	var best string
	bestSimilarity := 0.0
	for _, c := range candidates {
		normalized := NormalizeName(c)
		if normalized == target {
			return c, true
		}
		similarity := matchr.JaroWinkler(target, normalized, false)
		if strings.Contains(normalized, target) && similarity < threshold {
			similarity = threshold
		}
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = c
		}
	}

	if bestSimilarity < threshold {
		return "", false
	}
	return best, true
}
