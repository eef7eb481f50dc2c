package admin

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/geomutil"
)

// cellSizeDeg is the bbox grid's cell edge length. One degree keeps cell
// occupancy reasonable for country/region/locality-scale polygons without
// needing a tunable per deployment; admin polygons span at most a few
// thousand cells even at country level, and a point lookup only visits the
// single cell its coordinates fall in.
const cellSizeDeg = 1.0

type cellKey struct {
	x, y int
}

// Index is the immutable, read-only-after-Build bbox grid spatial index
// over admin polygons (§4.1: "no R-tree library is present anywhere in the
// reference corpus, so this is hand-built over orb.Bound"). Every query
// examines only the polygons whose bbox overlaps the query point's cell,
// then confirms with geomutil.PointInPolygon.
type Index struct {
	entries []domain.AdminEntry
	cells   map[cellKey][]int
}

// Build constructs the index. No method on Index mutates it afterward.
func Build(entries []domain.AdminEntry) *Index {
	idx := &Index{
		entries: entries,
		cells:   make(map[cellKey][]int),
	}
	for i, e := range entries {
		for _, key := range cellsCovering(e.Bound) {
			idx.cells[key] = append(idx.cells[key], i)
		}
	}
	return idx
}

func cellsCovering(b orb.Bound) []cellKey {
	minX := int(math.Floor(b.Min[0] / cellSizeDeg))
	maxX := int(math.Floor(b.Max[0] / cellSizeDeg))
	minY := int(math.Floor(b.Min[1] / cellSizeDeg))
	maxY := int(math.Floor(b.Max[1] / cellSizeDeg))

	keys := make([]cellKey, 0, (maxX-minX+1)*(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			keys = append(keys, cellKey{x, y})
		}
	}
	return keys
}

// PIP resolves a point's admin hierarchy (§4.1 contract): for each level,
// the smallest-bbox-area containing polygon wins; ties broken by ascending
// osm_id.
func (idx *Index) PIP(pt orb.Point) domain.AdminHierarchy {
	key := cellKey{
		x: int(math.Floor(pt[0] / cellSizeDeg)),
		y: int(math.Floor(pt[1] / cellSizeDeg)),
	}

	best := make(map[domain.AdminLevel]*domain.AdminEntry)
	for _, i := range idx.cells[key] {
		e := &idx.entries[i]
		if !e.Bound.Contains(pt) {
			continue
		}
		if !geomutil.PointInPolygon(pt, e.Polygon) {
			continue
		}
		cur, ok := best[e.Level]
		if !ok || e.Area() < cur.Area() || (e.Area() == cur.Area() && e.OSMID < cur.OSMID) {
			best[e.Level] = e
		}
	}

	var h domain.AdminHierarchy
	for level, e := range best {
		h.Set(level, &domain.AdminRef{ID: domain.PlaceID(domain.EntityRelation, e.OSMID), Name: e.Name})
	}
	return h
}

// Len reports the number of admin polygons in the index.
func (idx *Index) Len() int { return len(idx.entries) }
