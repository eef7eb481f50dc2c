package geomutil

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func square() []orb.Point {
	return []orb.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
}

func TestPointInRing(t *testing.T) {
	ring := square()

	assert.True(t, PointInRing(orb.Point{0.5, 0.5}, ring), "center is inside")
	assert.False(t, PointInRing(orb.Point{2, 2}, ring), "far outside")
	assert.False(t, PointInRing(orb.Point{-0.1, 0.5}, ring), "outside on the left")
}

func TestPointInPolygonWithHole(t *testing.T) {
	outer := square()
	hole := []orb.Point{{0.25, 0.25}, {0.75, 0.25}, {0.75, 0.75}, {0.25, 0.75}}
	poly := orb.Polygon{outer, hole}

	assert.True(t, PointInPolygon(orb.Point{0.1, 0.1}, poly), "inside outer, outside hole")
	assert.False(t, PointInPolygon(orb.Point{0.5, 0.5}, poly), "inside hole")
	assert.False(t, PointInPolygon(orb.Point{2, 2}, poly), "outside outer")
}

func TestRingBoundAndCentroid(t *testing.T) {
	outer := square()
	b := RingBound(outer)
	assert.Equal(t, orb.Point{0, 0}, b.Min)
	assert.Equal(t, orb.Point{1, 1}, b.Max)

	c := PolygonCentroid(orb.Polygon{outer})
	assert.InDelta(t, 0.5, c[0], 1e-9)
	assert.InDelta(t, 0.5, c[1], 1e-9)
}
