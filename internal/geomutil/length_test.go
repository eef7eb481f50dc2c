package geomutil

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestPolylineLengthSumsSegments(t *testing.T) {
	whole := []orb.Point{{0, 0}, {1, 0}, {2, 0}}
	a := []orb.Point{{0, 0}, {1, 0}}
	b := []orb.Point{{1, 0}, {2, 0}}

	assert.InDelta(t, PolylineLength(a)+PolylineLength(b), PolylineLength(whole), 1e-9)
}

func TestPolylineLengthSinglePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, PolylineLength([]orb.Point{{0, 0}}))
}
