package catalog

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold admits matches whose edit distance is at most 30% of the
// query length.
const DefaultThreshold = 0.3

// Matcher scores how closely a query occurs anywhere inside a text. Position
// within the text is ignored and comparison is case-insensitive.
type Matcher struct {
	Threshold float64
}

// Score returns the normalized edit distance (0 is an exact occurrence) of the
// best approximate occurrence of query in text, and whether it is within the
// threshold.
func (m Matcher) Score(query, text string) (float64, bool) {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	t := []rune(strings.ToLower(text))
	if len(q) == 0 || len(t) == 0 {
		return 1, false
	}
	if strings.Contains(string(t), string(q)) {
		return 0, true
	}

	maxErr := int(math.Floor(m.Threshold * float64(len(q))))
	if maxErr == 0 {
		return 1, false
	}

	best := len(q)
	qs := string(q)
	// distances are counted in runes so accented letters cost one edit
	minLen := max(1, len(q)-maxErr)
	maxLen := len(q) + maxErr
	if len(t) < minLen {
		best = levenshtein.ComputeDistance(qs, string(t))
	}
windows:
	for l := minLen; l <= maxLen && l <= len(t); l++ {
		for i := 0; i+l <= len(t); i++ {
			if d := levenshtein.ComputeDistance(qs, string(t[i:i+l])); d < best {
				best = d
				if best == 1 {
					break windows
				}
			}
		}
	}

	score := float64(best) / float64(len(q))
	return score, score <= m.Threshold
}

// scoreAny returns the best score of query against any of texts.
func (m Matcher) scoreAny(query string, texts []string) (float64, bool) {
	best, found := 1.0, false
	for _, txt := range texts {
		if s, ok := m.Score(query, txt); ok && (!found || s < best) {
			best, found = s, true
		}
	}
	return best, found
}
