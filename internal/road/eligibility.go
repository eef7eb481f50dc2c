package road

import "strings"

// mergeableHighwayClasses are the §4.2 eligible highway tag values. Classes
// not in this set (notably motorway, trunk, and any *_link) pass through the
// place extractor unmerged instead of reaching this package.
var mergeableHighwayClasses = map[string]bool{
	"residential":   true,
	"primary":       true,
	"secondary":     true,
	"tertiary":      true,
	"service":       true,
	"living_street": true,
	"pedestrian":    true,
	"track":         true,
	"footway":       true,
	"cycleway":      true,
	"path":          true,
}

// IsEligible reports whether a way with the given highway class and name
// presence should be merged by this package.
func IsEligible(highwayClass string, hasName bool) bool {
	if !hasName {
		return false
	}
	return mergeableHighwayClasses[highwayClass]
}

// IsExcluded reports whether a highway class is explicitly excluded from
// merging (motorway, trunk, and their *_link variants), as distinct from
// simply absent from the eligible set (e.g. an unrecognized future tag
// value defaults to "not eligible" too, but isn't flagged as "excluded").
func IsExcluded(highwayClass string) bool {
	switch highwayClass {
	case "motorway", "trunk":
		return true
	}
	return strings.HasSuffix(highwayClass, "_link")
}
