package logger

import (
	"io"
	"regexp"
	"strings"
)

// Masker hides the user's home directory in log output. Log lines carry
// resolved filesystem paths, and the home prefix embeds the OS username.
type Masker struct {
	patterns []*regexp.Regexp
}

// NewMasker creates a masker for the given home directory. Both slash
// styles are matched, and JSON-escaped backslashes too, since zerolog
// writes Windows paths as `C:\\Users\\...`.
func NewMasker(home string) *Masker {
	forward := strings.ReplaceAll(home, `\`, `/`)
	backward := strings.ReplaceAll(home, `/`, `\`)
	escaped := strings.ReplaceAll(backward, `\`, `\\`)

	var patterns []*regexp.Regexp
	seen := map[string]bool{}
	for _, variant := range []string{home, forward, backward, escaped} {
		if variant == "" || seen[variant] {
			continue
		}
		seen[variant] = true
		patterns = append(patterns, regexp.MustCompile(regexp.QuoteMeta(variant)))
	}

	return &Masker{patterns: patterns}
}

// Mask replaces every home directory occurrence with "~"
func (m *Masker) Mask(s string) string {
	result := s
	for _, pattern := range m.patterns {
		result = pattern.ReplaceAllString(result, "~")
	}
	return result
}

// Wrap wraps an io.Writer to mask the home directory
func (m *Masker) Wrap(w io.Writer) io.Writer {
	return &maskingWriter{
		writer: w,
		masker: m,
	}
}

// maskingWriter is an io.Writer that masks the home directory
type maskingWriter struct {
	writer io.Writer
	masker *Masker
}

func (w *maskingWriter) Write(p []byte) (n int, err error) {
	masked := w.masker.Mask(string(p))
	return w.writer.Write([]byte(masked))
}
