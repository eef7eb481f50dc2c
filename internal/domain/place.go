package domain

import (
	"strconv"

	"github.com/paulmach/orb"
)

// EntityType is the OSM entity kind a place id is derived from, or the
// synthetic "road" kind for merged road documents.
type EntityType string

const (
	EntityNode     EntityType = "node"
	EntityWay      EntityType = "way"
	EntityRelation EntityType = "relation"
	EntityRoad     EntityType = "road"
)

// Layer is the coarse kind of a place (§3, §4.3).
type Layer string

const (
	LayerVenue         Layer = "venue"
	LayerAddress       Layer = "address"
	LayerStreet        Layer = "street"
	LayerLocality      Layer = "locality"
	LayerRegion        Layer = "region"
	LayerCountry       Layer = "country"
	LayerNeighbourhood Layer = "neighbourhood"
	LayerCounty        Layer = "county"
	LayerLocalAdmin    Layer = "localadmin"
)

// GeometryType distinguishes a point place from a merged-road polyline.
type GeometryType string

const (
	GeometryPoint      GeometryType = "Point"
	GeometryLineString GeometryType = "LineString"
)

// Geometry is a place's position: either a single point or a polyline, with
// its bounding box kept alongside for the document schema's bounding_box
// field.
type Geometry struct {
	Type   GeometryType
	Point  orb.Point   // valid when Type == GeometryPoint
	Line   orb.LineString // valid when Type == GeometryLineString
	Bound  orb.Bound
}

// Center returns the representative point used for PIP lookups and the
// document schema's center_point field.
func (g Geometry) Center() orb.Point {
	if g.Type == GeometryPoint {
		return g.Point
	}
	return g.Bound.Center()
}

// Place is the indexed document (§3, §6).
type Place struct {
	ID          string
	Type        EntityType
	OSMID       int64
	Layer       Layer
	Geometry    Geometry
	Name        NameBundle
	Parent      AdminHierarchy
	Categories  []string
	Importance  *float64
	Wikidata    string
	SourceFile  string
	Version     int64
}

// PlaceID renders the canonical "{type}/{osm_id}" id.
func PlaceID(t EntityType, osmID int64) string {
	return string(t) + "/" + strconv.FormatInt(osmID, 10)
}
