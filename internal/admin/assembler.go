package admin

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/geomutil"
	"github.com/location-microservice/geoingest/internal/osmsource"
)

// relationRecord is one boundary=administrative relation surviving
// discovery, plus the member way ids split by role.
type relationRecord struct {
	id        int64
	level     domain.AdminLevel
	tags      osmsource.Tags
	outerWays []int64
	innerWays []int64
}

// Assembler runs the two §4.1 passes over an open PBF reader and builds the
// admin polygons. It is single-use: construct, call Assemble once, discard.
type Assembler struct {
	log *zap.Logger

	relations   map[int64]*relationRecord
	neededWays  map[int64]bool
	neededNodes map[int64]bool
	wayNodeIDs  map[int64][]int64
	nodePos     map[int64]orb.Point

	Stats AssembleStats
}

// AssembleStats counts the discovery/materialization outcomes, folded into
// the run summary's error counters.
type AssembleStats struct {
	RelationsSeen    int64
	RelationsDropped int64
	PolygonsBuilt    int64
}

func NewAssembler(log *zap.Logger) *Assembler {
	return &Assembler{
		log:         log,
		relations:   make(map[int64]*relationRecord),
		neededWays:  make(map[int64]bool),
		neededNodes: make(map[int64]bool),
		wayNodeIDs:  make(map[int64][]int64),
		nodePos:     make(map[int64]orb.Point),
	}
}

// Assemble runs discovery (relations, then the ways they reference),
// materialization (the nodes those ways reference), and ring stitching, and
// returns the assembled entries. r must be an open, seekable PBF file; it is
// scanned three times.
func (a *Assembler) Assemble(ctx context.Context, r io.ReadSeeker, workers int) ([]domain.AdminEntry, error) {
	if err := a.discoverRelations(ctx, r, workers); err != nil {
		return nil, fmt.Errorf("admin: discover relations: %w", err)
	}
	if err := a.discoverWays(ctx, r, workers); err != nil {
		return nil, fmt.Errorf("admin: discover ways: %w", err)
	}
	if err := a.materializeNodes(ctx, r, workers); err != nil {
		return nil, fmt.Errorf("admin: materialize nodes: %w", err)
	}
	return a.stitchAll(), nil
}

func (a *Assembler) discoverRelations(ctx context.Context, r io.ReadSeeker, workers int) error {
	opts := osmsource.PassOptions{SkipNodes: true, SkipWays: true, Workers: workers}
	return osmsource.Scan(ctx, r, opts, osmsource.Handler{
		OnRelation: func(rel osmsource.Relation) {
			a.Stats.RelationsSeen++
			if v, ok := rel.Tags.Get("boundary"); !ok || v != "administrative" {
				return
			}
			level, ok := a.levelOf(rel.Tags)
			if !ok {
				a.Stats.RelationsDropped++
				return
			}
			rec := &relationRecord{id: rel.ID, level: level, tags: rel.Tags}
			for _, m := range rel.Members {
				if m.Type != osmsource.MemberWay {
					continue
				}
				switch m.Role {
				case osmsource.RoleInner:
					rec.innerWays = append(rec.innerWays, m.Ref)
				default:
					rec.outerWays = append(rec.outerWays, m.Ref)
				}
				a.neededWays[m.Ref] = true
			}
			a.relations[rel.ID] = rec
		},
	})
}

func (a *Assembler) levelOf(tags osmsource.Tags) (domain.AdminLevel, bool) {
	n := tags.Int("admin_level")
	if n == nil {
		return "", false
	}
	level, ok := domain.AdminLevelTable[*n]
	return level, ok
}

func (a *Assembler) discoverWays(ctx context.Context, r io.ReadSeeker, workers int) error {
	if len(a.neededWays) == 0 {
		return nil
	}
	opts := osmsource.PassOptions{SkipNodes: true, SkipRelations: true, Workers: workers}
	return osmsource.Scan(ctx, r, opts, osmsource.Handler{
		OnWay: func(w osmsource.Way) {
			if !a.neededWays[w.ID] {
				return
			}
			ids := make([]int64, len(w.Nodes))
			for i, n := range w.Nodes {
				ids[i] = n.ID
				a.neededNodes[n.ID] = true
			}
			a.wayNodeIDs[w.ID] = ids
		},
	})
}

func (a *Assembler) materializeNodes(ctx context.Context, r io.ReadSeeker, workers int) error {
	if len(a.neededNodes) == 0 {
		return nil
	}
	a.nodePos = make(map[int64]orb.Point, len(a.neededNodes))
	opts := osmsource.PassOptions{SkipWays: true, SkipRelations: true, Workers: workers}
	return osmsource.Scan(ctx, r, opts, osmsource.Handler{
		OnNode: func(n osmsource.Node) {
			if a.neededNodes[n.ID] {
				a.nodePos[n.ID] = orb.Point{n.Lon, n.Lat}
			}
		},
	})
}

// stitchAll assembles every relation's outer/inner ways into rings and
// builds one AdminEntry per closed outer ring, walking relation ids in
// ascending order for deterministic logging order.
func (a *Assembler) stitchAll() []domain.AdminEntry {
	ids := make([]int64, 0, len(a.relations))
	for id := range a.relations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var entries []domain.AdminEntry
	for _, id := range ids {
		rec := a.relations[id]
		outerSegs := a.segmentsFor(rec.outerWays)
		closedOuters, unclosed := geomutil.StitchRings(outerSegs)
		if len(unclosed) > 0 && a.log != nil {
			a.log.Debug("admin relation has non-closing outer chain",
				zap.Int64("relation_id", id), zap.Int("unclosed_chains", len(unclosed)))
		}
		if len(closedOuters) == 0 {
			a.Stats.RelationsDropped++
			if a.log != nil {
				a.log.Warn("dropping admin relation: no closed outer ring", zap.Int64("relation_id", id))
			}
			continue
		}

		innerSegs := a.segmentsFor(rec.innerWays)
		closedInners, _ := geomutil.StitchRings(innerSegs)

		name := domain.NewNameBundle(rec.tags.NameBundle())
		for _, outer := range closedOuters {
			poly := orb.Polygon{outer}
			for _, inner := range closedInners {
				if ringCenterInside(outer, inner) {
					poly = append(poly, inner)
				}
			}
			bound := geomutil.RingBound(outer)
			entries = append(entries, domain.AdminEntry{
				OSMID:    rec.id,
				Level:    rec.level,
				Name:     name,
				Polygon:  poly,
				Bound:    bound,
				Centroid: bound.Center(),
			})
			a.Stats.PolygonsBuilt++
		}
	}
	return entries
}

// ringCenterInside assigns a candidate inner ring to an outer ring by
// testing the inner ring's own bbox center against the outer ring — good
// enough for the non-self-intersecting admin polygons this pipeline sees,
// and avoids an O(n*m) full point membership pass across every relation.
func ringCenterInside(outer, inner []orb.Point) bool {
	return geomutil.PointInRing(geomutil.RingBound(inner).Center(), outer)
}

func (a *Assembler) segmentsFor(wayIDs []int64) []geomutil.Segment {
	segs := make([]geomutil.Segment, 0, len(wayIDs))
	for _, wid := range wayIDs {
		nodeIDs, ok := a.wayNodeIDs[wid]
		if !ok || len(nodeIDs) < 2 {
			continue
		}
		points := make([]orb.Point, 0, len(nodeIDs))
		complete := true
		for _, nid := range nodeIDs {
			pt, ok := a.nodePos[nid]
			if !ok {
				complete = false
				break
			}
			points = append(points, pt)
		}
		if !complete {
			continue
		}
		segs = append(segs, geomutil.Segment{ID: wid, NodeIDs: nodeIDs, Points: points})
	}
	return segs
}
