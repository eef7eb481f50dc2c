package geomutil

import (
	"github.com/paulmach/orb"

	"github.com/location-microservice/geoingest/internal/pkg/utils"
)

// PolylineLength sums the great-circle distance (km) between consecutive
// points, via the teacher's haversine helper — used by the road merger's
// continuity invariant (§8: a merged road's polyline length equals the sum
// of its source ways' lengths, within floating-point tolerance).
func PolylineLength(pts []orb.Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += utils.HaversineDistance(pts[i-1][1], pts[i-1][0], pts[i][1], pts[i][0])
	}
	return total
}
