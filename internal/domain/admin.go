package domain

import "github.com/paulmach/orb"

// AdminLevel is one of the spec's coarse administrative levels, derived
// from the OSM admin_level numeric tag via the fixed table in SPEC_FULL §9.
type AdminLevel string

const (
	LevelCountry       AdminLevel = "country"
	LevelRegion        AdminLevel = "region"
	LevelCounty        AdminLevel = "county"
	LevelLocality      AdminLevel = "locality"
	LevelLocalAdmin    AdminLevel = "localadmin"
	LevelNeighbourhood AdminLevel = "neighbourhood"
)

// AdminLevelTable maps the OSM admin_level numeric tag to a coarse level.
// Values not present here are not assembled into the admin index.
var AdminLevelTable = map[int]AdminLevel{
	2:  LevelCountry,
	4:  LevelRegion,
	6:  LevelCounty,
	8:  LevelLocality,
	9:  LevelLocalAdmin,
	10: LevelLocalAdmin,
	11: LevelNeighbourhood,
}

// AdminLevelOrder lists levels from coarsest to finest, the order in which
// AdminHierarchy fields are populated and reported.
var AdminLevelOrder = []AdminLevel{
	LevelCountry, LevelRegion, LevelCounty, LevelLocality, LevelLocalAdmin, LevelNeighbourhood,
}

// AdminEntry is one assembled administrative polygon.
type AdminEntry struct {
	OSMID      int64
	Level      AdminLevel
	Name       NameBundle
	Polygon    orb.Polygon // outer ring + holes
	Bound      orb.Bound
	Centroid   orb.Point
}

// Area returns the polygon's axis-aligned bbox area, used as the tie-break
// metric ("smallest bbox area wins") when multiple polygons at the same
// level contain a point.
func (e *AdminEntry) Area() float64 {
	d := e.Bound.Max.Sub(e.Bound.Min)
	return d[0] * d[1]
}

// AdminRef is the denormalized {id, name} pair attached to a place's parent
// hierarchy, per the §6 document schema.
type AdminRef struct {
	ID   string
	Name NameBundle
}

// AdminHierarchy is the denormalized parent container attached to a place.
type AdminHierarchy struct {
	Country       *AdminRef
	Region        *AdminRef
	County        *AdminRef
	Locality      *AdminRef
	LocalAdmin    *AdminRef
	Neighbourhood *AdminRef
}

// IsEmpty reports whether no admin level matched (a PIP-miss).
func (h AdminHierarchy) IsEmpty() bool {
	return h.Country == nil && h.Region == nil && h.County == nil &&
		h.Locality == nil && h.LocalAdmin == nil && h.Neighbourhood == nil
}

// Set assigns ref at the given level; levels outside AdminLevelOrder are a
// no-op, which should never happen given AdminLevelTable's closed range.
func (h *AdminHierarchy) Set(level AdminLevel, ref *AdminRef) {
	switch level {
	case LevelCountry:
		h.Country = ref
	case LevelRegion:
		h.Region = ref
	case LevelCounty:
		h.County = ref
	case LevelLocality:
		h.Locality = ref
	case LevelLocalAdmin:
		h.LocalAdmin = ref
	case LevelNeighbourhood:
		h.Neighbourhood = ref
	}
}
