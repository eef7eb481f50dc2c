package place

import (
	"context"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/location-microservice/geoingest/internal/admin"
	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/geomutil"
	"github.com/location-microservice/geoingest/internal/osmsource"
)

// Candidate is one OSM node or unmerged way handed to the extractor's
// worker pool.
type Candidate struct {
	Type     domain.EntityType
	OSMID    int64
	Position orb.Point // for ways, resolved by the caller as the bbox centroid
	Tags     osmsource.Tags
}

// Extractor turns Candidates (and finalized S2 road records) into Places,
// attaching the admin hierarchy from an immutable admin.Index.
type Extractor struct {
	adminIndex *admin.Index
	sourceFile string
	version    int64
	workers    int
}

func NewExtractor(adminIndex *admin.Index, sourceFile string, version int64, workers int) *Extractor {
	if workers <= 0 {
		workers = 1
	}
	return &Extractor{adminIndex: adminIndex, sourceFile: sourceFile, version: version, workers: workers}
}

// Run drains in with a bounded worker pool (§4.3/§5: "each worker performs
// PIP lookups against the immutable shared admin index with no locking"),
// writing every surviving Place to out. It returns ctx.Err() if canceled.
func (e *Extractor) Run(ctx context.Context, in <-chan Candidate, out chan<- domain.Place) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case c, ok := <-in:
					if !ok {
						return nil
					}
					p, keep := e.fromCandidate(c)
					if !keep {
						continue
					}
					select {
					case out <- p:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
		})
	}
	return g.Wait()
}

func (e *Extractor) fromCandidate(c Candidate) (domain.Place, bool) {
	layer, recognized := Classify(c.Tags)
	name := domain.NewNameBundle(c.Tags.NameBundle())
	hasHouseNumber := c.Tags.Pick("addr:housenumber") != nil

	// §4.3 filtering: entities without a nonempty name bundle AND without an
	// address housenumber are dropped.
	if !recognized || (name.Empty() && !hasHouseNumber) {
		return domain.Place{}, false
	}

	wikidata, _ := c.Tags.Get("wikidata")
	bound := orb.Bound{Min: c.Position, Max: c.Position}

	p := domain.Place{
		ID:    domain.PlaceID(c.Type, c.OSMID),
		Type:  c.Type,
		OSMID: c.OSMID,
		Layer: layer,
		Geometry: domain.Geometry{
			Type:  domain.GeometryPoint,
			Point: c.Position,
			Bound: bound,
		},
		Name:       name,
		Categories: Categories(c.Tags),
		Wikidata:   wikidata,
		SourceFile: e.sourceFile,
		Version:    e.version,
	}
	if e.adminIndex != nil {
		p.Parent = e.adminIndex.PIP(c.Position)
	}
	return p, true
}

// FinalizeRoad attaches the admin hierarchy and run bookkeeping to a merged
// road produced by the road package, completing it into an indexable Place.
func (e *Extractor) FinalizeRoad(r domain.MergedRoad) domain.Place {
	p := r.Place
	p.SourceFile = e.sourceFile
	p.Version = e.version
	if e.adminIndex != nil {
		p.Parent = e.adminIndex.PIP(geomutil.RingBound(r.Geometry.Line).Center())
	}
	return p
}
