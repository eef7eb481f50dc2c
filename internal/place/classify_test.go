package place

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/osmsource"
)

func TestClassifyPlaceTag(t *testing.T) {
	layer, ok := Classify(osmsource.Tags{"place": "city", "name": "Town"})
	assert.True(t, ok)
	assert.Equal(t, domain.LayerLocality, layer)
}

func TestClassifyVenueTag(t *testing.T) {
	layer, ok := Classify(osmsource.Tags{"amenity": "cafe", "name": "Cafe"})
	assert.True(t, ok)
	assert.Equal(t, domain.LayerVenue, layer)
}

func TestClassifyVenueTagIgnoresNoValue(t *testing.T) {
	_, ok := Classify(osmsource.Tags{"amenity": "no"})
	assert.False(t, ok)
}

func TestClassifyAddressFallback(t *testing.T) {
	layer, ok := Classify(osmsource.Tags{"addr:housenumber": "12"})
	assert.True(t, ok)
	assert.Equal(t, domain.LayerAddress, layer)
}

func TestClassifyUnrecognized(t *testing.T) {
	_, ok := Classify(osmsource.Tags{"surface": "asphalt"})
	assert.False(t, ok)
}

func TestCategoriesRendersMatchedTags(t *testing.T) {
	cats := Categories(osmsource.Tags{"amenity": "cafe", "highway": "residential"})
	assert.Contains(t, cats, "amenity:cafe")
	assert.Contains(t, cats, "highway:residential")
}
