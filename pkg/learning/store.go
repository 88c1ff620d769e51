// Package learning records which path a user actually chose for an input,
// so the resolver's learned-intent stage can answer repeat queries from
// history instead of the global alias table.
package learning

import "strings"

// Suggestion is a learned path with the share of past choices behind it.
type Suggestion struct {
	Path       string  `json:"path"`
	Confidence float64 `json:"confidence"` // choices for this path / all choices for the input
}

// Store is the pluggable learning backend. The engine injects one into the
// resolver; the default is in-memory, the sqlite store survives restarts.
type Store interface {
	// Record notes that the user picked chosenPath for input.
	Record(userID, input, chosenPath string) error

	// Lookup returns the strongest suggestion for the user's input,
	// false when the input has no history.
	Lookup(userID, input string) (Suggestion, bool)

	// Close releases any backing resources.
	Close() error
}

// normalizeInput folds case and trims so "Downloads " and "downloads"
// share one history bucket.
func normalizeInput(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// bestOf picks the path with the highest count and computes its share.
// Deterministic tie-break on the path string.
func bestOf(counts map[string]int) (Suggestion, bool) {
	total := 0
	bestPath := ""
	bestCount := 0
	for path, count := range counts {
		total += count
		if count > bestCount || (count == bestCount && path < bestPath) {
			bestPath = path
			bestCount = count
		}
	}

	if total == 0 {
		return Suggestion{}, false
	}
	return Suggestion{
		Path:       bestPath,
		Confidence: float64(bestCount) / float64(total),
	}, true
}
