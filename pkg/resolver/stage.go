// Package resolver turns fuzzy, locale-sensitive location queries into
// concrete absolute path candidates through an ordered pipeline of
// resolution stages. The first stage producing a non-empty result wins;
// the fallback stage guarantees the result is never empty.
package resolver

import "strings"

// Stage names, reported in Result.Stage.
const (
	StageCache       = "cache"
	StagePassthrough = "passthrough"
	StageLearned     = "learned"
	StageContextual  = "contextual"
	StageAlias       = "alias"
	StageHeuristic   = "heuristic"
	StageFallback    = "fallback"
)

// Context carries the per-call hints a caller may have.
type Context struct {
	Locale       string `json:"locale,omitempty"`
	PreviousPath string `json:"previous_path,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}

// Result is one resolution outcome. Candidates is never empty: the
// normalized raw input is the last-resort candidate.
type Result struct {
	Candidates []string `json:"candidates"`
	Stage      string   `json:"stage"`
	Confidence float64  `json:"confidence"`
}

// Stage is one step of the fallback pipeline. Implementations must not
// panic their way out: the runner recovers and treats failures as no match.
type Stage interface {
	Name() string
	// Resolve returns candidate paths and a confidence score, or ok=false
	// when the stage has nothing to say about the input.
	Resolve(input string, ctx Context) (Result, bool)
}

// sanitizeSegment strips characters that cannot appear in a single path
// component on any supported platform.
func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(
		"/", "", `\`, "", ":", "", "*", "", "?", "",
		`"`, "", "<", "", ">", "", "|", "",
	)
	return strings.TrimSpace(replacer.Replace(s))
}

// isWindowsAbs recognizes drive-letter and UNC absolute paths regardless
// of the platform the engine itself runs on: queries may describe paths on
// a mounted or remote Windows filesystem.
func isWindowsAbs(p string) bool {
	if len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		c := p[0]
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	return strings.HasPrefix(p, `\\`)
}
