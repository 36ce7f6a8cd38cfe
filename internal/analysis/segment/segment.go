package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/clauselens/clauselens/internal/config"
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Split segments full document text into clause-sized units: paragraph breaks
// (two or more newlines) and period-whitespace-uppercase boundaries both start
// a new clause. Candidates at or below the minimum length are dropped as
// noise. This is a heuristic, not a parser - boundaries are approximate.
func Split(text string) []string {
	var clauses []string
	for _, para := range paragraphBreak.Split(text, -1) {
		for _, candidate := range splitSentences(para) {
			candidate = strings.TrimSpace(candidate)
			if len(candidate) > config.MinClauseLength {
				clauses = append(clauses, candidate)
			}
		}
	}
	return clauses
}

// splitSentences cuts after a period that is followed by whitespace and an
// uppercase letter. The period stays with the preceding clause, the
// whitespace run is consumed.
func splitSentences(s string) []string {
	var parts []string
	runes := []rune(s)
	start := 0

	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		parts = append(parts, string(runes[start:i+1]))
		start = j
		i = j - 1
	}

	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}
