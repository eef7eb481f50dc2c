package road

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/geomutil"
)

func mainStName() domain.NameBundle {
	return domain.NewNameBundle(map[string]string{"default": "Main St"})
}

func TestMergeThreeAdjacentWays(t *testing.T) {
	candidates := []WayCandidate{
		{ID: 1, NodeIDs: []int64{1, 2, 3}, Points: []orb.Point{{0, 0}, {1, 0}, {2, 0}}, Name: mainStName(), HighwayClass: "residential"},
		{ID: 2, NodeIDs: []int64{3, 4, 5}, Points: []orb.Point{{2, 0}, {3, 0}, {4, 0}}, Name: mainStName(), HighwayClass: "residential"},
		{ID: 3, NodeIDs: []int64{5, 6, 7}, Points: []orb.Point{{4, 0}, {5, 0}, {6, 0}}, Name: mainStName(), HighwayClass: "residential"},
	}

	roads := Merge(candidates)
	require.Len(t, roads, 1)
	assert.Equal(t, []int64{1, 2, 3}, roads[0].SourceWayIDs)
	assert.Contains(t, roads[0].Categories, "merged_ways:3")
	assert.Equal(t, domain.EntityRoad, roads[0].Type)
	assert.Len(t, roads[0].Geometry.Line, 7)
	assert.Equal(t, orb.Point{0, 0}, roads[0].Geometry.Line[0])
	assert.Equal(t, orb.Point{6, 0}, roads[0].Geometry.Line[6])

	wantLength := geomutil.PolylineLength(candidates[0].Points) +
		geomutil.PolylineLength(candidates[1].Points) +
		geomutil.PolylineLength(candidates[2].Points)
	assert.InDelta(t, wantLength, geomutil.PolylineLength(roads[0].Geometry.Line), 1e-9)
}

func TestMergeKeepsDifferentNamesSeparate(t *testing.T) {
	candidates := []WayCandidate{
		{ID: 1, NodeIDs: []int64{1, 2}, Points: []orb.Point{{0, 0}, {1, 0}}, Name: mainStName(), HighwayClass: "residential"},
		{ID: 2, NodeIDs: []int64{2, 3}, Points: []orb.Point{{1, 0}, {2, 0}}, Name: domain.NewNameBundle(map[string]string{"default": "Oak Ave"}), HighwayClass: "residential"},
	}

	roads := Merge(candidates)
	require.Len(t, roads, 2)
	for _, r := range roads {
		assert.Contains(t, r.Categories, "merged_ways:1")
	}
}

func TestMergeSingleWayCarriesMergedWaysOne(t *testing.T) {
	candidates := []WayCandidate{
		{ID: 5, NodeIDs: []int64{1, 2}, Points: []orb.Point{{0, 0}, {1, 1}}, Name: mainStName(), HighwayClass: "service"},
	}
	roads := Merge(candidates)
	require.Len(t, roads, 1)
	assert.Equal(t, []int64{5}, roads[0].SourceWayIDs)
	assert.Contains(t, roads[0].Categories, "merged_ways:1")
}

func TestStableIDDeterministicAcrossWayOrder(t *testing.T) {
	idA := stableID("Main St", "residential", []int64{3, 1, 2})
	idB := stableID("Main St", "residential", []int64{1, 2, 3})
	assert.Equal(t, idA, idB)
}

func TestIsEligibleAndExcluded(t *testing.T) {
	assert.True(t, IsEligible("residential", true))
	assert.False(t, IsEligible("residential", false))
	assert.False(t, IsEligible("motorway", true))

	assert.True(t, IsExcluded("motorway"))
	assert.True(t, IsExcluded("trunk"))
	assert.True(t, IsExcluded("motorway_link"))
	assert.False(t, IsExcluded("residential"))
}
