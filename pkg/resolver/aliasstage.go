package resolver

import "github.com/desinsight/SnapAGENT-filo-sub009/pkg/alias"

// aliasStage is the direct mapping-table lookup: exact, case-insensitive,
// and locale-aware, with near-exact similarity matching handled inside the
// table itself.
type aliasStage struct {
	table *alias.Table
}

func (s *aliasStage) Name() string { return StageAlias }

func (s *aliasStage) Resolve(input string, ctx Context) (Result, bool) {
	match, ok := s.table.Lookup(input, ctx.Locale)
	if !ok {
		return Result{}, false
	}

	return Result{
		Candidates: match.Paths,
		Stage:      StageAlias,
		Confidence: match.Score,
	}, true
}
