package osmsource

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"
)

// Tags is a flattened OSM tag map, lowercase keys preserved as written by
// OSM (OSM tag keys are already case-sensitive/lowercase by convention).
type Tags map[string]string

func tagsFrom(t osm.Tags) Tags {
	if len(t) == 0 {
		return Tags{}
	}
	out := make(Tags, len(t))
	for _, tag := range t {
		out[tag.Key] = tag.Value
	}
	return out
}

// Get returns the raw tag value and whether it was present.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Pick returns the first nonblank value found among keys, adapted from the
// teacher's postgresosm.pickTag: callers list tag keys in priority order
// (e.g. "addr:full", "addr:street") and take whichever is set first.
func (t Tags) Pick(keys ...string) *string {
	for _, key := range keys {
		if val, ok := t[key]; ok && strings.TrimSpace(val) != "" {
			v := strings.TrimSpace(val)
			return &v
		}
	}
	return nil
}

// Bool parses an OSM yes/no-style tag, adapted from parseBoolTag.
func (t Tags) Bool(keys ...string) *bool {
	for _, key := range keys {
		if val, ok := t[key]; ok {
			if b, ok := parseYesNo(val); ok {
				return &b
			}
		}
	}
	return nil
}

func parseYesNo(val string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "yes", "true", "1", "y":
		return true, true
	case "no", "false", "0", "n":
		return false, true
	default:
		return false, false
	}
}

// Int parses an integer-valued tag, adapted from parseIntTag.
func (t Tags) Int(keys ...string) *int {
	for _, key := range keys {
		if val, ok := t[key]; ok && strings.TrimSpace(val) != "" {
			if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				return &parsed
			}
		}
	}
	return nil
}

// NameBundle extracts the §3 name bundle: lowercase lang_code -> value, with
// "default" mapped from the bare "name" tag and "name:xx" filling variants.
func (t Tags) NameBundle() map[string]string {
	bundle := make(map[string]string)
	for key, val := range t {
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		if key == "name" {
			bundle["default"] = val
			continue
		}
		if strings.HasPrefix(key, "name:") {
			lang := strings.ToLower(strings.TrimPrefix(key, "name:"))
			if lang != "" {
				bundle[lang] = val
			}
		}
	}
	return bundle
}
