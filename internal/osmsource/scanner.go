package osmsource

import (
	"context"
	"fmt"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// PassOptions controls which entity types a single scan pass decodes.
// Skipping the types a pass doesn't need (as the two S1 passes and the S3
// pass each do) lets osmpbf skip decoding whole blocks.
type PassOptions struct {
	SkipNodes     bool
	SkipWays      bool
	SkipRelations bool
	// Workers bounds the osmpbf internal block-decode concurrency; zero or
	// a negative value means a single decode worker.
	Workers int
}

// Handler receives decoded entities during a Scan. Any handler left nil is
// simply never called; the corresponding PassOptions.SkipX should be set in
// that case so osmpbf doesn't bother decoding them.
type Handler struct {
	OnNode     func(Node)
	OnWay      func(Way)
	OnRelation func(Relation)
}

// Scan performs one sequential pass over the PBF file at r, invoking the
// handler for each decoded entity matching opts. r must support Seek so the
// caller can reuse the same open file across the two S1 passes and the S3
// pass (paulmach/osm/osmpbf only reads forward within one Scan).
func Scan(ctx context.Context, r io.ReadSeeker, opts PassOptions, h Handler) (err error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("osmsource: seek to start: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	scanner := osmpbf.New(ctx, r, workers)
	scanner.SkipNodes = opts.SkipNodes
	scanner.SkipWays = opts.SkipWays
	scanner.SkipRelations = opts.SkipRelations
	defer func() {
		if cerr := scanner.Close(); err == nil {
			err = cerr
		}
	}()

	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			if h.OnNode != nil {
				h.OnNode(nodeFrom(obj))
			}
		case *osm.Way:
			if h.OnWay != nil {
				h.OnWay(wayFrom(obj))
			}
		case *osm.Relation:
			if h.OnRelation != nil {
				h.OnRelation(relationFrom(obj))
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if serr := scanner.Err(); serr != nil {
		return fmt.Errorf("osmsource: scan: %w", serr)
	}
	return nil
}
