// Package geomutil holds the shared geometry helpers (§2 "Shared" row):
// ring stitching, point-in-polygon, and bbox/centroid math used by both the
// admin assembler (S1), the road merger (S2), and the place extractor (S3).
package geomutil

import (
	"sort"

	"github.com/paulmach/orb"
)

// Segment is one OSM way reduced to the shape chain assembly needs: its
// ordered node ids (for endpoint matching) and the matching coordinates.
type Segment struct {
	ID      int64
	NodeIDs []int64
	Points  []orb.Point
}

func (s Segment) FirstNode() int64 { return s.NodeIDs[0] }
func (s Segment) LastNode() int64  { return s.NodeIDs[len(s.NodeIDs)-1] }

func (s Segment) Reversed() Segment {
	n := len(s.NodeIDs)
	nodeIDs := make([]int64, n)
	points := make([]orb.Point, n)
	for i := 0; i < n; i++ {
		nodeIDs[i] = s.NodeIDs[n-1-i]
		points[i] = s.Points[n-1-i]
	}
	return Segment{ID: s.ID, NodeIDs: nodeIDs, Points: points}
}

// Chain is one walked sequence of segments, in the order and orientation
// they were appended during ChainSegments.
type Chain struct {
	SegmentIDs []int64
	NodeIDs    []int64
	Points     []orb.Point
}

func (c Chain) closed() bool {
	return len(c.NodeIDs) > 1 && c.NodeIDs[0] == c.NodeIDs[len(c.NodeIDs)-1]
}

// ChainSegments implements the endpoint-matching chain assembly shared by
// ring stitching (§4.1) and road merging (§4.2): repeatedly pick the
// lowest-id unused segment as a seed, then extend either end by appending a
// segment sharing that endpoint (reversing it as needed) until the chain
// closes on itself or no extension exists. Segments are walked in ascending
// id order throughout so results are deterministic regardless of input
// order or map iteration.
func ChainSegments(segments []Segment) []Chain {
	if len(segments) == 0 {
		return nil
	}

	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	used := make(map[int64]bool, len(ordered))
	var chains []Chain

	for _, seed := range ordered {
		if used[seed.ID] || len(seed.NodeIDs) < 2 {
			continue
		}
		used[seed.ID] = true
		c := Chain{
			SegmentIDs: []int64{seed.ID},
			NodeIDs:    append([]int64(nil), seed.NodeIDs...),
			Points:     append([]orb.Point(nil), seed.Points...),
		}

		for {
			if c.closed() {
				break
			}
			extended := false
			// try extending the tail first, then the head, always picking
			// the lowest-id eligible candidate for determinism.
			if seg, ok := findExtension(ordered, used, c.NodeIDs[len(c.NodeIDs)-1]); ok {
				if seg.FirstNode() != c.NodeIDs[len(c.NodeIDs)-1] {
					seg = seg.Reversed()
				}
				c.NodeIDs = append(c.NodeIDs, seg.NodeIDs[1:]...)
				c.Points = append(c.Points, seg.Points[1:]...)
				c.SegmentIDs = append(c.SegmentIDs, seg.ID)
				used[seg.ID] = true
				extended = true
			} else if seg, ok := findExtension(ordered, used, c.NodeIDs[0]); ok {
				if seg.LastNode() != c.NodeIDs[0] {
					seg = seg.Reversed()
				}
				c.NodeIDs = append(append([]int64(nil), seg.NodeIDs[:len(seg.NodeIDs)-1]...), c.NodeIDs...)
				c.Points = append(append([]orb.Point(nil), seg.Points[:len(seg.Points)-1]...), c.Points...)
				c.SegmentIDs = append(c.SegmentIDs, seg.ID)
				used[seg.ID] = true
				extended = true
			}
			if !extended {
				break
			}
		}

		chains = append(chains, c)
	}

	return chains
}

func findExtension(ordered []Segment, used map[int64]bool, endpoint int64) (Segment, bool) {
	for _, seg := range ordered {
		if used[seg.ID] {
			continue
		}
		if seg.FirstNode() == endpoint || seg.LastNode() == endpoint {
			return seg, true
		}
	}
	return Segment{}, false
}

// StitchRings implements the §4.1/§9 endpoint-matching ring assembly on top
// of ChainSegments: chains that close on themselves (and have at least a
// triangle's worth of distinct points) become rings; everything else is
// reported separately so the caller can log+drop it (§4.1 failure policy)
// rather than abort.
func StitchRings(segments []Segment) (closed [][]orb.Point, unclosed [][]orb.Point) {
	for _, c := range ChainSegments(segments) {
		if c.closed() && len(c.NodeIDs) > 3 {
			closed = append(closed, c.Points)
		} else {
			unclosed = append(unclosed, c.Points)
		}
	}
	return closed, unclosed
}
