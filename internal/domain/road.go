package domain

// MergedRoad is the §3/§4.2 output of the road merger: a synthetic place
// (Type == EntityRoad) plus the bookkeeping needed to build its id and
// categories deterministically.
type MergedRoad struct {
	Place
	HighwayClass string
	SourceWayIDs []int64 // ascending, the ids hashed into Place.ID
}
