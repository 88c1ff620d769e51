package resolver

import (
	"path"
	"regexp"
	"strings"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/alias"
)

// contextualStage extracts "<base folder> 안의/에 <subfolder>" style phrases
// and joins the resolved base alias with the sanitized subfolder name.
type contextualStage struct {
	table *alias.Table
}

// pattern captures a base-folder alias and a subfolder from one phrasing.
type pattern struct {
	re      *regexp.Regexp
	baseIdx int
	subIdx  int
}

// Ordered: the most specific phrasings first. Korean particles attach
// without whitespace, so the base group is non-greedy up to the particle.
var contextualPatterns = []pattern{
	// "문서 안의 보고서", "문서 안에 있는 보고서"
	{regexp.MustCompile(`^(.+?)\s*(?:안의|안에\s+있는|안에)\s+(.+)$`), 1, 2},
	// "바탕화면에 프로젝트 폴더"
	{regexp.MustCompile(`^(\S+?)에\s+(.+)$`), 1, 2},
	// "project folder in desktop", "reports under documents"
	{regexp.MustCompile(`^(.+?)\s+(?:in|inside|under)\s+(?:the\s+)?(.+)$`), 2, 1},
}

func (s *contextualStage) Name() string { return StageContextual }

func (s *contextualStage) Resolve(input string, ctx Context) (Result, bool) {
	input = strings.TrimSpace(input)

	for _, p := range contextualPatterns {
		m := p.re.FindStringSubmatch(input)
		if m == nil {
			continue
		}

		base := strings.TrimSpace(m[p.baseIdx])
		sub := trimFolderSuffix(m[p.subIdx])
		if base == "" || sub == "" {
			continue
		}

		match, ok := s.table.Lookup(base, ctx.Locale)
		if !ok {
			continue
		}

		candidates := make([]string, 0, len(match.Paths))
		for _, basePath := range match.Paths {
			candidates = append(candidates, joinStyled(basePath, sub))
		}

		return Result{
			Candidates: candidates,
			Stage:      StageContextual,
			Confidence: match.Score * 0.9,
		}, true
	}

	return Result{}, false
}

// trimFolderSuffix drops a trailing "폴더"/"folder" word and sanitizes the
// remaining segment.
func trimFolderSuffix(s string) string {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{" 폴더", "폴더", " folder", " directory"} {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	return sanitizeSegment(s)
}

// joinStyled appends a segment using the separator style the base path
// already uses, so Windows-style candidates stay Windows-style even when
// the engine runs elsewhere.
func joinStyled(base, segment string) string {
	if strings.Contains(base, `\`) || isWindowsAbs(base) {
		return strings.TrimRight(base, `\`) + `\` + segment
	}
	return path.Join(base, segment)
}
