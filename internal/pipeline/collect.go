// Package pipeline wires S1-S4 into the single ordered run described in §2
// and §5: it owns the open PBF file and every pass over it, since only the
// orchestrator knows the full set of node ids any stage still needs.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/paulmach/orb"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/osmsource"
	"github.com/location-microservice/geoingest/internal/place"
	"github.com/location-microservice/geoingest/internal/road"
)

// pendingWay is one way recognized by either S2 or S3 in the ways pass,
// waiting on node-position resolution before it can become a
// road.WayCandidate or a place.Candidate.
type pendingWay struct {
	id      int64
	nodeIDs []int64
	tags    osmsource.Tags
}

// wayCollection is the §4.2/§4.3 split of every named/tagged way in the
// file into the set the road merger consumes and the set the place
// extractor consumes directly (excluded highway classes, addresses, and any
// other recognized-but-not-mergeable way).
type wayCollection struct {
	roadPending  []pendingWay
	placePending []pendingWay
	neededNodes  map[int64]bool
}

// collectWays is the combined S2/S3 discovery pass over ways (§4.1's
// two-pass node-resolution technique, reused here for way-node positions
// instead of admin-polygon node positions): it classifies every way once
// and records which node ids it will need resolved in the next pass,
// without yet materializing any coordinates.
func collectWays(ctx context.Context, r io.ReadSeeker, workers int) (wayCollection, error) {
	wc := wayCollection{neededNodes: make(map[int64]bool)}

	opts := osmsource.PassOptions{SkipNodes: true, SkipRelations: true, Workers: workers}
	err := osmsource.Scan(ctx, r, opts, osmsource.Handler{
		OnWay: func(w osmsource.Way) {
			if len(w.Nodes) == 0 {
				return
			}
			highway, _ := w.Tags.Get("highway")
			name := domain.NewNameBundle(w.Tags.NameBundle())
			pw := pendingWay{id: w.ID, nodeIDs: nodeIDs(w), tags: w.Tags}

			if road.IsEligible(highway, !name.Empty()) {
				wc.roadPending = append(wc.roadPending, pw)
				markNeeded(wc.neededNodes, pw.nodeIDs)
				return
			}
			if _, recognized := place.Classify(w.Tags); recognized {
				wc.placePending = append(wc.placePending, pw)
				markNeeded(wc.neededNodes, pw.nodeIDs)
			}
		},
	})
	if err != nil {
		return wayCollection{}, fmt.Errorf("pipeline: collect ways: %w", err)
	}
	return wc, nil
}

func nodeIDs(w osmsource.Way) []int64 {
	ids := make([]int64, len(w.Nodes))
	for i, n := range w.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func markNeeded(set map[int64]bool, ids []int64) {
	for _, id := range ids {
		set[id] = true
	}
}

// resolveNodePositions runs the materialization half of the two-pass
// technique: a single pass over every node, keeping only those in needed.
func resolveNodePositions(ctx context.Context, r io.ReadSeeker, needed map[int64]bool, workers int) (map[int64]orb.Point, error) {
	positions := make(map[int64]orb.Point, len(needed))
	if len(needed) == 0 {
		return positions, nil
	}

	opts := osmsource.PassOptions{SkipWays: true, SkipRelations: true, Workers: workers}
	err := osmsource.Scan(ctx, r, opts, osmsource.Handler{
		OnNode: func(n osmsource.Node) {
			if needed[n.ID] {
				positions[n.ID] = orb.Point{n.Lon, n.Lat}
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: resolve node positions: %w", err)
	}
	return positions, nil
}

// buildRoadCandidates turns resolved road-pending ways into road.WayCandidate
// values, dropping any way whose nodes didn't fully resolve (a §7 parse
// error: a referenced node id missing from the file).
func buildRoadCandidates(pending []pendingWay, positions map[int64]orb.Point) []road.WayCandidate {
	out := make([]road.WayCandidate, 0, len(pending))
	for _, pw := range pending {
		pts, ok := resolvePoints(pw.nodeIDs, positions)
		if !ok {
			continue
		}
		highway, _ := pw.tags.Get("highway")
		out = append(out, road.WayCandidate{
			ID:           pw.id,
			NodeIDs:      pw.nodeIDs,
			Points:       pts,
			Name:         domain.NewNameBundle(pw.tags.NameBundle()),
			HighwayClass: highway,
		})
	}
	return out
}

// buildPlaceCandidates turns resolved place-pending ways into
// place.Candidate values centered on their bbox centroid (§4.3 step 1:
// "Ways: centroid of bounding box").
func buildPlaceCandidates(pending []pendingWay, positions map[int64]orb.Point) []place.Candidate {
	out := make([]place.Candidate, 0, len(pending))
	for _, pw := range pending {
		pts, ok := resolvePoints(pw.nodeIDs, positions)
		if !ok {
			continue
		}
		bound := orb.Bound{Min: pts[0], Max: pts[0]}
		for _, p := range pts[1:] {
			bound = bound.Extend(p)
		}
		out = append(out, place.Candidate{
			Type:     domain.EntityWay,
			OSMID:    pw.id,
			Position: bound.Center(),
			Tags:     pw.tags,
		})
	}
	return out
}

func resolvePoints(nodeIDs []int64, positions map[int64]orb.Point) ([]orb.Point, bool) {
	pts := make([]orb.Point, len(nodeIDs))
	for i, id := range nodeIDs {
		p, ok := positions[id]
		if !ok {
			return nil, false
		}
		pts[i] = p
	}
	return pts, true
}
