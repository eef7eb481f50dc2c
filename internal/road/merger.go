package road

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/geomutil"
)

// WayCandidate is one eligible highway way handed to Merge, already filtered
// by IsEligible.
type WayCandidate struct {
	ID           int64
	NodeIDs      []int64
	Points       []orb.Point
	Name         domain.NameBundle
	HighwayClass string
}

// Merge implements the §4.2 algorithm: bucket by (default_name,
// highway_class), union adjacent ways sharing an endpoint within each
// bucket, and emit one MergedRoad per resulting chain (including
// single-way "buckets", which still carry categories=[merged_ways:1] for
// uniform downstream handling).
func Merge(candidates []WayCandidate) []domain.MergedRoad {
	type bucket struct {
		name  domain.NameBundle
		class string
		segs  []geomutil.Segment
	}
	buckets := make(map[string]*bucket)

	for _, c := range candidates {
		key := bucketKey(c.Name.Default(), c.HighwayClass)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{name: c.Name, class: c.HighwayClass}
			buckets[key] = b
		}
		b.segs = append(b.segs, geomutil.Segment{ID: c.ID, NodeIDs: c.NodeIDs, Points: c.Points})
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var roads []domain.MergedRoad
	for _, key := range keys {
		b := buckets[key]
		for _, chain := range geomutil.ChainSegments(b.segs) {
			wayIDs := append([]int64(nil), chain.SegmentIDs...)
			sort.Slice(wayIDs, func(i, j int) bool { return wayIDs[i] < wayIDs[j] })

			bound := pointsBound(chain.Points)
			roads = append(roads, domain.MergedRoad{
				Place: domain.Place{
					ID:    stableID(b.name.Default(), b.class, wayIDs),
					Type:  domain.EntityRoad,
					Layer: domain.LayerStreet,
					Geometry: domain.Geometry{
						Type:  domain.GeometryLineString,
						Line:  orb.LineString(chain.Points),
						Bound: bound,
					},
					Name:       b.name,
					Categories: []string{fmt.Sprintf("merged_ways:%d", len(wayIDs))},
				},
				HighwayClass: b.class,
				SourceWayIDs: wayIDs,
			})
		}
	}
	return roads
}

// bucketKey folds the default name and highway class into one grouping key.
// Ways with only language-variant names but no default are bucketed under
// the fallback default name (§3's DefaultLangPreference fallback already
// populated it by the time a candidate reaches this package).
func bucketKey(defaultName, highwayClass string) string {
	return strings.ToLower(defaultName) + "\x00" + highwayClass
}

func pointsBound(pts []orb.Point) orb.Bound {
	b := orb.Bound{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b = b.Extend(p)
	}
	return b
}
