package domain

import "strings"

// DefaultLangPreference is the fallback order used to synthesize "default"
// when a name bundle has language variants but no unqualified "name" tag.
var DefaultLangPreference = []string{"en", "fr", "de", "es"}

// NameBundle is the §3 name bundle: lang_code -> display name, with the
// sentinel key "default" for the unqualified OSM "name" tag.
type NameBundle map[string]string

// NewNameBundle builds a bundle from raw lang->value pairs (as produced by
// osmsource.Tags.NameBundle), applying the default-fallback rule.
func NewNameBundle(raw map[string]string) NameBundle {
	bundle := make(NameBundle, len(raw))
	for k, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		bundle[strings.ToLower(k)] = v
	}
	if _, ok := bundle["default"]; !ok {
		for _, lang := range DefaultLangPreference {
			if v, ok := bundle[lang]; ok {
				bundle["default"] = v
				break
			}
		}
	}
	return bundle
}

// Empty reports whether the bundle carries no name in any language.
func (b NameBundle) Empty() bool {
	return len(b) == 0
}

// Default returns the bundle's default display name, or "" if unset.
func (b NameBundle) Default() string {
	return b[DefaultKey]
}

// DefaultKey is the sentinel key for the unqualified name.
const DefaultKey = "default"

// Merge fills in languages missing from b using values from other, without
// overwriting anything b already has — the §4.4 labels-merge rule ("existing
// language entries take precedence over fetched ones").
func (b NameBundle) Merge(other NameBundle) {
	for lang, val := range other {
		if _, exists := b[lang]; !exists && strings.TrimSpace(val) != "" {
			b[lang] = val
		}
	}
}

// Clone returns an independent copy.
func (b NameBundle) Clone() NameBundle {
	out := make(NameBundle, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
