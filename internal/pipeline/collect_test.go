package pipeline

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/osmsource"
)

func TestResolvePointsDropsWayWithMissingNode(t *testing.T) {
	positions := map[int64]orb.Point{1: {0, 0}, 2: {1, 1}}

	pts, ok := resolvePoints([]int64{1, 2}, positions)
	require.True(t, ok)
	assert.Len(t, pts, 2)

	_, ok = resolvePoints([]int64{1, 3}, positions)
	assert.False(t, ok, "way referencing an unresolved node must be dropped")
}

func TestBuildRoadCandidatesSkipsUnresolvedWays(t *testing.T) {
	positions := map[int64]orb.Point{1: {0, 0}, 2: {1, 0}}
	pending := []pendingWay{
		{id: 10, nodeIDs: []int64{1, 2}, tags: osmsource.Tags{"highway": "residential", "name": "Main St"}},
		{id: 11, nodeIDs: []int64{1, 99}, tags: osmsource.Tags{"highway": "residential", "name": "Broken St"}},
	}

	candidates := buildRoadCandidates(pending, positions)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(10), candidates[0].ID)
	assert.Equal(t, "residential", candidates[0].HighwayClass)
	assert.Equal(t, "Main St", candidates[0].Name.Default())
}

func TestBuildPlaceCandidatesUsesBoundCentroid(t *testing.T) {
	positions := map[int64]orb.Point{1: {0, 0}, 2: {2, 2}}
	pending := []pendingWay{
		{id: 20, nodeIDs: []int64{1, 2}, tags: osmsource.Tags{"building": "yes"}},
	}

	candidates := buildPlaceCandidates(pending, positions)
	require.Len(t, candidates, 1)
	assert.Equal(t, domain.EntityWay, candidates[0].Type)
	assert.Equal(t, orb.Point{1, 1}, candidates[0].Position)
}

func TestMarkNeededAccumulatesAcrossCalls(t *testing.T) {
	set := make(map[int64]bool)
	markNeeded(set, []int64{1, 2})
	markNeeded(set, []int64{2, 3})
	assert.Len(t, set, 3)
	assert.True(t, set[1] && set[2] && set[3])
}
