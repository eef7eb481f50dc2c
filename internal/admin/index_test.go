package admin

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/location-microservice/geoingest/internal/domain"
)

func townEntry() domain.AdminEntry {
	ring := []orb.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	bound := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	return domain.AdminEntry{
		OSMID:    100,
		Level:    domain.LevelLocality,
		Name:     domain.NewNameBundle(map[string]string{"default": "Town", "de": "Stadt"}),
		Polygon:  orb.Polygon{ring},
		Bound:    bound,
		Centroid: bound.Center(),
	}
}

func TestIndexPIPMatch(t *testing.T) {
	idx := Build([]domain.AdminEntry{townEntry()})
	require.Equal(t, 1, idx.Len())

	h := idx.PIP(orb.Point{0.5, 0.5})
	require.NotNil(t, h.Locality)
	assert.Equal(t, "Town", h.Locality.Name.Default())
	assert.True(t, h.Country == nil)
}

func TestIndexPIPMiss(t *testing.T) {
	idx := Build([]domain.AdminEntry{townEntry()})

	h := idx.PIP(orb.Point{2, 2})
	assert.True(t, h.IsEmpty())
}

func TestIndexPIPSmallestAreaWins(t *testing.T) {
	outerRing := []orb.Point{{-1, -1}, {2, -1}, {2, 2}, {-1, 2}}
	outerBound := orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{2, 2}}
	big := domain.AdminEntry{
		OSMID: 1, Level: domain.LevelLocality,
		Name: domain.NewNameBundle(map[string]string{"default": "Big"}),
		Polygon: orb.Polygon{outerRing}, Bound: outerBound, Centroid: outerBound.Center(),
	}
	small := townEntry()
	small.Name = domain.NewNameBundle(map[string]string{"default": "Small"})

	idx := Build([]domain.AdminEntry{big, small})
	h := idx.PIP(orb.Point{0.5, 0.5})
	require.NotNil(t, h.Locality)
	assert.Equal(t, "Small", h.Locality.Name.Default())
}
