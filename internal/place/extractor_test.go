package place

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/location-microservice/geoingest/internal/admin"
	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/osmsource"
)

func buildTownIndex() *admin.Index {
	ring := []orb.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	bound := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	entry := domain.AdminEntry{
		OSMID: 9, Level: domain.LevelLocality,
		Name: domain.NewNameBundle(map[string]string{"default": "Town"}),
		Polygon: orb.Polygon{ring}, Bound: bound, Centroid: bound.Center(),
	}
	return admin.Build([]domain.AdminEntry{entry})
}

func TestExtractorRunKeepsNamedNode(t *testing.T) {
	idx := buildTownIndex()
	e := NewExtractor(idx, "switzerland-latest", 1, 2)

	in := make(chan Candidate, 1)
	out := make(chan domain.Place, 1)
	in <- Candidate{Type: domain.EntityNode, OSMID: 42, Position: orb.Point{0.5, 0.5}, Tags: osmsource.Tags{"place": "city", "name": "Town"}}
	close(in)

	require.NoError(t, e.Run(context.Background(), in, out))
	close(out)

	places := drain(out)
	require.Len(t, places, 1)
	assert.Equal(t, "node/42", places[0].ID)
	assert.Equal(t, domain.LayerLocality, places[0].Layer)
	require.NotNil(t, places[0].Parent.Locality)
	assert.Equal(t, "Town", places[0].Parent.Locality.Name.Default())
	assert.Equal(t, int64(1), places[0].Version)
	assert.Equal(t, "switzerland-latest", places[0].SourceFile)
}

func TestExtractorRunDropsUnnamedNonAddress(t *testing.T) {
	idx := buildTownIndex()
	e := NewExtractor(idx, "switzerland-latest", 1, 1)

	in := make(chan Candidate, 1)
	out := make(chan domain.Place, 1)
	in <- Candidate{Type: domain.EntityNode, OSMID: 7, Position: orb.Point{0.5, 0.5}, Tags: osmsource.Tags{"amenity": "bench"}}
	close(in)

	require.NoError(t, e.Run(context.Background(), in, out))
	close(out)

	assert.Empty(t, drain(out))
}

func TestExtractorRunKeepsAddressWithoutName(t *testing.T) {
	idx := buildTownIndex()
	e := NewExtractor(idx, "switzerland-latest", 1, 1)

	in := make(chan Candidate, 1)
	out := make(chan domain.Place, 1)
	in <- Candidate{Type: domain.EntityWay, OSMID: 99, Position: orb.Point{0.5, 0.5}, Tags: osmsource.Tags{"addr:housenumber": "5"}}
	close(in)

	require.NoError(t, e.Run(context.Background(), in, out))
	close(out)

	places := drain(out)
	require.Len(t, places, 1)
	assert.Equal(t, domain.LayerAddress, places[0].Layer)
}

func TestFinalizeRoadAttachesParentAndVersion(t *testing.T) {
	idx := buildTownIndex()
	e := NewExtractor(idx, "switzerland-latest", 2, 1)

	road := domain.MergedRoad{
		Place: domain.Place{
			ID:    "road/abc123",
			Type:  domain.EntityRoad,
			Layer: domain.LayerStreet,
			Geometry: domain.Geometry{
				Type: domain.GeometryLineString,
				Line: orb.LineString{{0.2, 0.2}, {0.8, 0.8}},
				Bound: orb.Bound{Min: orb.Point{0.2, 0.2}, Max: orb.Point{0.8, 0.8}},
			},
			Name:       domain.NewNameBundle(map[string]string{"default": "Main St"}),
			Categories: []string{"merged_ways:2"},
		},
		HighwayClass: "residential",
		SourceWayIDs: []int64{1, 2},
	}

	p := e.FinalizeRoad(road)
	assert.Equal(t, "switzerland-latest", p.SourceFile)
	assert.Equal(t, int64(2), p.Version)
	require.NotNil(t, p.Parent.Locality)
}

func drain(ch chan domain.Place) []domain.Place {
	var out []domain.Place
	for p := range ch {
		out = append(out, p)
	}
	return out
}
