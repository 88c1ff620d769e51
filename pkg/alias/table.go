package alias

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/similarity"
)

// DefaultNearMatchThreshold is the similarity floor for accepting a
// near-exact alias match.
const DefaultNearMatchThreshold = 0.8

// Config holds the environment the table expands its templates against.
type Config struct {
	Home          string
	Username      string
	Platform      string // windows, darwin, linux, wsl
	DefaultLocale string
	NearMatch     float64 // similarity floor, DefaultNearMatchThreshold when 0
	Logger        zerolog.Logger
}

// Match is one alias lookup result.
type Match struct {
	Key   string
	Paths []string
	Score float64
}

// Table is the alias→path mapping table. The static template set is built
// once at construction; the auto path detector may register additional
// entries afterwards.
type Table struct {
	mu            sync.RWMutex
	entries       map[string]*Entry
	order         []string // insertion order, used for tie-breaking
	platform      string
	defaultLocale string
	nearMatch     float64
	logger        zerolog.Logger
}

// NewTable builds a table pre-populated with the static platform templates.
func NewTable(cfg Config) *Table {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}
	if cfg.NearMatch == 0 {
		cfg.NearMatch = DefaultNearMatchThreshold
	}

	t := &Table{
		entries:       make(map[string]*Entry),
		platform:      cfg.Platform,
		defaultLocale: cfg.DefaultLocale,
		nearMatch:     cfg.NearMatch,
		logger:        cfg.Logger,
	}

	for _, entry := range staticEntries(cfg) {
		t.register(entry)
	}

	return t
}

// Register adds or extends an entry. Paths for an existing key are appended
// after the static candidates so detector findings never shadow templates.
func (t *Table) Register(entry *Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.entries[entry.Key]
	if !ok {
		t.register(entry)
		return
	}

	for locale, names := range entry.LocalizedNames {
		existing.LocalizedNames[locale] = appendMissing(existing.LocalizedNames[locale], names)
	}
	for platform, paths := range entry.TargetPaths {
		existing.TargetPaths[platform] = appendMissing(existing.TargetPaths[platform], paths)
	}
}

// register assumes the lock is held (or construction-time single ownership).
func (t *Table) register(entry *Entry) {
	t.entries[entry.Key] = entry
	t.order = append(t.order, entry.Key)
}

// GetBasePaths returns the ordered candidate paths for a canonical key on
// the table's platform. The locale argument selects which display names a
// caller would see; the path set is locale-independent.
func (t *Table) GetBasePaths(key, locale string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.entries[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil
	}
	return entry.Paths(t.platform)
}

// Lookup finds the entry whose key or localized name best matches input.
// Exact and case-insensitive matches score 1.0; otherwise the best
// similarity across display names decides, accepted only at or above the
// near-match threshold. Ties are broken by score, then insertion order.
func (t *Table) Lookup(input, locale string) (Match, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return Match{}, false
	}

	var best Match
	for _, key := range t.order {
		entry := t.entries[key]
		score := t.scoreEntry(entry, needle, locale)
		if score > best.Score {
			best = Match{
				Key:   key,
				Paths: entry.Paths(t.platform),
				Score: score,
			}
			if score == 1.0 {
				break
			}
		}
	}

	if best.Score < t.nearMatch || len(best.Paths) == 0 {
		return Match{}, false
	}
	return best, true
}

// scoreEntry rates how well needle matches an entry's key or names.
func (t *Table) scoreEntry(entry *Entry, needle, locale string) float64 {
	if entry.Key == needle {
		return 1.0
	}

	// Localized names for other locales still match, at no penalty: users
	// mix locales freely ("downloads" on a Korean desktop).
	candidates := append([]string{}, entry.Names(locale, t.defaultLocale)...)
	candidates = append(candidates, entry.AllNames()...)

	best := 0.0
	for _, name := range candidates {
		if strings.ToLower(name) == needle {
			return 1.0
		}
		if s := similarity.Score(needle, name); s > best {
			best = s
		}
	}

	if s := similarity.Score(needle, entry.Key); s > best {
		best = s
	}
	return best
}

// GetAllAliases flattens the table into display-name→first-path pairs for
// the table's platform and the given locale.
func (t *Table) GetAllAliases(locale string) map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	flat := make(map[string]string)
	for _, key := range t.order {
		entry := t.entries[key]
		paths := entry.Paths(t.platform)
		if len(paths) == 0 {
			continue
		}
		flat[key] = paths[0]
		for _, name := range entry.Names(locale, t.defaultLocale) {
			flat[name] = paths[0]
		}
	}
	return flat
}

// Keys returns the canonical keys in insertion order.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

func appendMissing(dst []string, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, ok := seen[s]; !ok {
			dst = append(dst, s)
		}
	}
	return dst
}
