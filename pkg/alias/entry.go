// Package alias maintains the localized alias→path mapping table the
// resolution pipeline consults for fuzzy location names.
package alias

// Entry maps one location category to its localized display names and its
// per-platform candidate paths.
type Entry struct {
	// Key is the canonical category id, e.g. "downloads".
	Key string `json:"key"`

	// LocalizedNames maps a locale tag to the display names users type for
	// this category. Every entry carries at least two names per locale.
	LocalizedNames map[string][]string `json:"localized_names"`

	// TargetPaths maps a platform id (windows, darwin, linux, wsl) to the
	// ordered candidate paths for this category.
	TargetPaths map[string][]string `json:"target_paths"`
}

// Names returns the display names for locale, falling back to defaultLocale
// and then to every name the entry knows.
func (e *Entry) Names(locale, defaultLocale string) []string {
	if names, ok := e.LocalizedNames[locale]; ok && len(names) > 0 {
		return names
	}
	if names, ok := e.LocalizedNames[defaultLocale]; ok && len(names) > 0 {
		return names
	}

	var all []string
	for _, names := range e.LocalizedNames {
		all = append(all, names...)
	}
	return all
}

// AllNames returns every display name across all locales.
func (e *Entry) AllNames() []string {
	var all []string
	for _, names := range e.LocalizedNames {
		all = append(all, names...)
	}
	return all
}

// Paths returns the candidate paths for platform, empty when the entry has
// no mapping for it.
func (e *Entry) Paths(platform string) []string {
	return e.TargetPaths[platform]
}
