package resolver

import "github.com/desinsight/SnapAGENT-filo-sub009/pkg/learning"

// learnedStage answers from the user's own correction history. It runs
// before the global alias table on purpose: what this user picked last
// time outweighs what the table would guess.
type learnedStage struct {
	store     learning.Store
	threshold float64
}

func (s *learnedStage) Name() string { return StageLearned }

func (s *learnedStage) Resolve(input string, ctx Context) (Result, bool) {
	if s.store == nil || ctx.UserID == "" {
		return Result{}, false
	}

	suggestion, ok := s.store.Lookup(ctx.UserID, input)
	if !ok || suggestion.Confidence < s.threshold {
		return Result{}, false
	}

	return Result{
		Candidates: []string{suggestion.Path},
		Stage:      StageLearned,
		Confidence: suggestion.Confidence,
	}, true
}
