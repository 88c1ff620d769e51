package resolver

import "path/filepath"

// fallbackStage never fails: it normalizes the raw input into an absolute
// path relative to the working directory. The degraded last resort the
// pipeline's never-empty guarantee rests on.
type fallbackStage struct {
	workingDir string
}

func (s *fallbackStage) Name() string { return StageFallback }

func (s *fallbackStage) Resolve(input string, _ Context) (Result, bool) {
	candidate := filepath.Clean(filepath.Join(s.workingDir, input))
	return Result{
		Candidates: []string{candidate},
		Stage:      StageFallback,
		Confidence: 0.1,
	}, true
}
