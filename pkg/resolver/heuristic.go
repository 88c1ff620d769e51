package resolver

import (
	"strings"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/alias"
)

// heuristicStage guesses a location category from keyword priors when no
// direct mapping exists. Fixed-confidence scoring, not NLP: a keyword hit
// earns the category's prior, conflicting evidence applies a penalty, and
// a previous path in the same category earns a small boost.
type heuristicStage struct {
	table     *alias.Table
	threshold float64
}

// categoryPrior links trigger keywords to alias-table keys.
type categoryPrior struct {
	category   string
	keywords   []string
	aliasKeys  []string
	confidence float64
}

var priors = []categoryPrior{
	{
		category:   "development",
		keywords:   []string{"프로젝트", "개발", "코드", "소스", "project", "dev", "code", "source", "repo"},
		aliasKeys:  []string{"documents", "home"},
		confidence: 0.75,
	},
	{
		category:   "media",
		keywords:   []string{"사진", "그림", "영상", "동영상", "음악", "photo", "picture", "image", "video", "movie", "music", "song"},
		aliasKeys:  []string{"pictures", "videos", "music"},
		confidence: 0.8,
	},
	{
		category:   "backup",
		keywords:   []string{"백업", "보관", "backup", "archive"},
		aliasKeys:  []string{"documents", "onedrive", "dropbox"},
		confidence: 0.72,
	},
	{
		category:   "temp",
		keywords:   []string{"임시", "temp", "tmp", "scratch"},
		aliasKeys:  []string{"downloads", "home"},
		confidence: 0.7,
	},
}

const (
	conflictPenalty   = 0.1
	previousPathBoost = 0.05
)

func (s *heuristicStage) Name() string { return StageHeuristic }

func (s *heuristicStage) Resolve(input string, ctx Context) (Result, bool) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return Result{}, false
	}

	var matched []categoryPrior
	for _, prior := range priors {
		for _, kw := range prior.keywords {
			if strings.Contains(needle, kw) {
				matched = append(matched, prior)
				break
			}
		}
	}
	if len(matched) == 0 {
		return Result{}, false
	}

	// Strongest prior wins; conflicting evidence from other categories
	// lowers trust in the guess.
	best := matched[0]
	for _, m := range matched[1:] {
		if m.confidence > best.confidence {
			best = m
		}
	}

	score := best.confidence
	if len(matched) > 1 {
		score -= conflictPenalty
	}
	if ctx.PreviousPath != "" && categoryMatchesPath(best, ctx.PreviousPath) {
		score += previousPathBoost
	}

	if score < s.threshold {
		return Result{}, false
	}

	var candidates []string
	for _, key := range best.aliasKeys {
		candidates = append(candidates, s.table.GetBasePaths(key, ctx.Locale)...)
	}
	if len(candidates) == 0 {
		return Result{}, false
	}

	return Result{
		Candidates: candidates,
		Stage:      StageHeuristic,
		Confidence: score,
	}, true
}

// categoryMatchesPath reports whether the previous path already sits under
// one of the category's alias folders.
func categoryMatchesPath(prior categoryPrior, previous string) bool {
	lower := strings.ToLower(previous)
	for _, key := range prior.aliasKeys {
		if strings.Contains(lower, key) {
			return true
		}
	}
	return false
}
