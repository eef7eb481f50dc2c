package admin

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/osmsource"
)

func newTestAssembler() *Assembler {
	a := NewAssembler(zap.NewNop())
	return a
}

func ptAt(lon, lat float64) orb.Point { return orb.Point{lon, lat} }

func TestStitchAllBuildsClosedSquareFromThreeWays(t *testing.T) {
	a := newTestAssembler()
	a.relations[1] = &relationRecord{
		id:        1,
		level:     domain.LevelLocality,
		tags:      osmsource.Tags{"name": "Town", "name:de": "Stadt"},
		outerWays: []int64{10, 11, 12},
	}
	a.wayNodeIDs[10] = []int64{1, 2, 3}
	a.wayNodeIDs[11] = []int64{3, 4}
	a.wayNodeIDs[12] = []int64{4, 1}
	a.nodePos[1] = ptAt(0, 0)
	a.nodePos[2] = ptAt(1, 0)
	a.nodePos[3] = ptAt(1, 1)
	a.nodePos[4] = ptAt(0, 1)

	entries := a.stitchAll()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.LevelLocality, entries[0].Level)
	assert.Equal(t, "Town", entries[0].Name.Default())
	assert.Equal(t, "Stadt", entries[0].Name["de"])
	assert.Equal(t, int64(1), a.Stats.PolygonsBuilt)
}

func TestStitchAllDropsRelationMissingNodePosition(t *testing.T) {
	a := newTestAssembler()
	a.relations[2] = &relationRecord{
		id:        2,
		level:     domain.LevelLocality,
		tags:      osmsource.Tags{"name": "Broken"},
		outerWays: []int64{20},
	}
	a.wayNodeIDs[20] = []int64{1, 2, 3, 1}
	a.nodePos[1] = ptAt(0, 0)
	// node 2 and 3 positions deliberately missing.

	entries := a.stitchAll()
	assert.Empty(t, entries)
	assert.Equal(t, int64(1), a.Stats.RelationsDropped)
}

func TestLevelOfUsesFixedTable(t *testing.T) {
	a := newTestAssembler()

	level, ok := a.levelOf(osmsource.Tags{"admin_level": "8"})
	require.True(t, ok)
	assert.Equal(t, domain.LevelLocality, level)

	_, ok = a.levelOf(osmsource.Tags{"admin_level": "99"})
	assert.False(t, ok)

	_, ok = a.levelOf(osmsource.Tags{})
	assert.False(t, ok)
}
