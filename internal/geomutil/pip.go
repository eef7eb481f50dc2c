package geomutil

import "github.com/paulmach/orb"

// PointInRing is a crossing-number point-in-polygon test using the upward
// crossing convention (§8 "boundary behaviors": a point exactly on an edge
// resolves to a single deterministic side). ring need not be explicitly
// closed; the last point is implicitly connected back to the first.
func PointInRing(pt orb.Point, ring []orb.Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x, y := pt[0], pt[1]
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		ax, ay := a[0], a[1]
		bx, by := b[0], b[1]

		upward := ay <= y && by > y
		downward := ay > y && by <= y
		if !upward && !downward {
			continue
		}

		// x coordinate of the edge-y intersection.
		xIntersect := ax + (y-ay)/(by-ay)*(bx-ax)
		if x < xIntersect {
			inside = !inside
		}
	}
	return inside
}

// PointInPolygon tests containment in a polygon's outer ring with holes
// subtracted (§4.1), using the PointInRing crossing-number test for the
// outer ring and for each hole.
func PointInPolygon(pt orb.Point, poly orb.Polygon) bool {
	if len(poly) == 0 {
		return false
	}
	if !PointInRing(pt, poly[0]) {
		return false
	}
	for _, hole := range poly[1:] {
		if PointInRing(pt, hole) {
			return false
		}
	}
	return true
}

// RingBound computes the axis-aligned bounding box of a ring.
func RingBound(ring []orb.Point) orb.Bound {
	b := orb.Bound{Min: ring[0], Max: ring[0]}
	for _, p := range ring[1:] {
		b = b.Extend(p)
	}
	return b
}

// PolygonCentroid approximates a polygon's centroid with its outer ring's
// bbox center — adequate for the denormalized parent/centroid fields the
// document schema carries; it is not used for area math.
func PolygonCentroid(poly orb.Polygon) orb.Point {
	if len(poly) == 0 {
		return orb.Point{}
	}
	return RingBound(poly[0]).Center()
}
