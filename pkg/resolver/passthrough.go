package resolver

import (
	"os"
	"path/filepath"
)

// passthroughStage short-circuits inputs that are already concrete: an
// absolute path, or a relative path that verifiably exists on disk.
type passthroughStage struct {
	workingDir string
}

func (s *passthroughStage) Name() string { return StagePassthrough }

func (s *passthroughStage) Resolve(input string, _ Context) (Result, bool) {
	if filepath.IsAbs(input) || isWindowsAbs(input) {
		return Result{
			Candidates: []string{filepath.Clean(input)},
			Stage:      StagePassthrough,
			Confidence: 1.0,
		}, true
	}

	// Relative input that exists under the working directory.
	candidate := filepath.Join(s.workingDir, input)
	if _, err := os.Stat(candidate); err == nil {
		return Result{
			Candidates: []string{candidate},
			Stage:      StagePassthrough,
			Confidence: 1.0,
		}, true
	}

	return Result{}, false
}
