package geomutil

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStitchRingsClosesSquareFromThreeSegments(t *testing.T) {
	segs := []Segment{
		{ID: 1, NodeIDs: []int64{1, 2, 3}, Points: []orb.Point{{0, 0}, {1, 0}, {1, 1}}},
		{ID: 2, NodeIDs: []int64{3, 4}, Points: []orb.Point{{1, 1}, {0, 1}}},
		{ID: 3, NodeIDs: []int64{4, 1}, Points: []orb.Point{{0, 1}, {0, 0}}},
	}

	closed, unclosed := StitchRings(segs)
	require.Len(t, closed, 1)
	assert.Empty(t, unclosed)
	assert.Len(t, closed[0], 5) // 4 corners plus the repeated closing point
	assert.Equal(t, orb.Point{0, 0}, closed[0][0])
}

func TestStitchRingsHandlesReversedSegment(t *testing.T) {
	segs := []Segment{
		{ID: 1, NodeIDs: []int64{1, 2}, Points: []orb.Point{{0, 0}, {1, 0}}},
		{ID: 2, NodeIDs: []int64{3, 2}, Points: []orb.Point{{1, 1}, {1, 0}}}, // reversed relative to the chain
		{ID: 3, NodeIDs: []int64{1, 3}, Points: []orb.Point{{0, 0}, {1, 1}}},
	}

	closed, unclosed := StitchRings(segs)
	require.Len(t, closed, 1)
	assert.Empty(t, unclosed)
	assert.Len(t, closed[0], 4) // 3 corners plus the repeated closing point
}

func TestStitchRingsReportsUnclosedChain(t *testing.T) {
	segs := []Segment{
		{ID: 1, NodeIDs: []int64{1, 2}, Points: []orb.Point{{0, 0}, {1, 0}}},
		{ID: 2, NodeIDs: []int64{2, 3}, Points: []orb.Point{{1, 0}, {1, 1}}},
	}

	closed, unclosed := StitchRings(segs)
	assert.Empty(t, closed)
	require.Len(t, unclosed, 1)
	assert.Len(t, unclosed[0], 3)
}
