// Package similarity provides string-distance scoring used by alias lookup
// and the resolution pipeline.
package similarity

import (
	"strings"
	"unicode/utf8"
)

// Score returns a normalized similarity between two strings in [0, 1].
// 1 means the strings are identical, 0 means nothing in common.
// Comparison is case-insensitive and whitespace-trimmed.
func Score(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dist := levenshtein(a, b)
	maxLen := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > maxLen {
		maxLen = l
	}

	return 1.0 - float64(dist)/float64(maxLen)
}

// Best returns the candidate with the highest similarity to input and its
// score. Ties keep the earlier candidate so insertion order stays meaningful.
func Best(input string, candidates []string) (string, float64) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		if s := Score(input, c); s > bestScore {
			best = c
			bestScore = s
		}
	}
	return best, bestScore
}

// levenshtein computes the edit distance between two strings, rune-wise so
// multi-byte alphabets (Hangul in particular) count per character.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
