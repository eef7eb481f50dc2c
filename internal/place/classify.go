package place

import (
	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/osmsource"
)

// placeTagLayers maps the OSM `place` tag's value to a coarse layer, for
// settlement nodes that are indexed as places in their own right (distinct
// from the admin polygons S1 assembles from boundary relations).
var placeTagLayers = map[string]domain.Layer{
	"country":       domain.LayerCountry,
	"state":         domain.LayerRegion,
	"province":      domain.LayerRegion,
	"region":        domain.LayerRegion,
	"county":        domain.LayerCounty,
	"city":          domain.LayerLocality,
	"town":          domain.LayerLocality,
	"village":       domain.LayerLocality,
	"hamlet":        domain.LayerLocality,
	"municipality":  domain.LayerLocality,
	"borough":       domain.LayerLocalAdmin,
	"suburb":        domain.LayerNeighbourhood,
	"neighbourhood": domain.LayerNeighbourhood,
	"quarter":       domain.LayerNeighbourhood,
}

// venueTagKeys are tag keys whose mere presence (with a value other than
// "no") marks an entity as a point of interest.
var venueTagKeys = []string{"amenity", "shop", "tourism", "office", "leisure", "craft", "healthcare"}

// Classify implements §4.3 step 3, a fixed tag -> layer table. ok is false
// when the entity carries none of the recognized tags; the caller then
// applies the §4.3 filtering rule (drop unless it has an address
// housenumber).
func Classify(tags osmsource.Tags) (domain.Layer, bool) {
	if v, present := tags.Get("place"); present {
		if layer, known := placeTagLayers[v]; known {
			return layer, true
		}
	}
	for _, key := range venueTagKeys {
		if v, present := tags.Get(key); present && v != "no" {
			return domain.LayerVenue, true
		}
	}
	if _, present := tags.Get("highway"); present {
		return domain.LayerStreet, true
	}
	if _, present := tags.Get("addr:housenumber"); present {
		return domain.LayerAddress, true
	}
	return "", false
}

// Categories renders the §3 categories list from the recognized tags: every
// place/venue/highway tag present, each as "key:value". Other tags (ref
// included) are not rendered.
func Categories(tags osmsource.Tags) []string {
	var cats []string
	for _, key := range []string{"place", "amenity", "shop", "tourism", "office", "leisure", "craft", "healthcare", "highway"} {
		if v, present := tags.Get(key); present {
			cats = append(cats, key+":"+v)
		}
	}
	return cats
}
