// Package indexer is S4: it drains the bounded place channel S3 feeds,
// accumulates bulk batches on the same accumulate-on-channel/flush-on-ticker
// shape as the teacher's MapboxBatchScheduler, and issues bulk_index calls
// against the search backend, retrying failed items with backoff before
// dropping them into the run's error count (§4.5).
package indexer

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/enrich"
	"github.com/location-microservice/geoingest/internal/pkg/retry"
	"github.com/location-microservice/geoingest/internal/search"
)

// Config controls the §4.5 bulk protocol's batch shape.
type Config struct {
	BatchSize     int           // default 500
	FlushInterval time.Duration // default 2s
	MaxAttempts   int           // default 5 (K in §4.5)
}

// DefaultConfig matches the §4.5 defaults.
var DefaultConfig = Config{
	BatchSize:     500,
	FlushInterval: 2 * time.Second,
	MaxAttempts:   5,
}

// Stats accumulates the run counters §7/§8 requires in the final summary.
// All fields are updated with atomic ops so Indexer.Run's single consumer
// goroutine and any caller reading Stats concurrently (e.g. a status
// endpoint) never race.
type Stats struct {
	Indexed int64
	Dropped int64
}

func (s *Stats) addIndexed(n int64) { atomic.AddInt64(&s.Indexed, n) }
func (s *Stats) addDropped(n int64) { atomic.AddInt64(&s.Dropped, n) }

// Indexer is the S4 stage: a single goroutine per target shard (§5)
// consuming domain.Place off a bounded channel and issuing bulk_index
// calls.
type Indexer struct {
	backend  search.Backend
	index    string
	cfg      Config
	log      *zap.Logger
	enricher *enrich.Enricher

	Stats Stats
}

func New(backend search.Backend, index string, cfg Config, enricher *enrich.Enricher, log *zap.Logger) *Indexer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultConfig.FlushInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig.MaxAttempts
	}
	return &Indexer{backend: backend, index: index, cfg: cfg, enricher: enricher, log: log}
}

// Run drains in until it is closed or ctx is canceled, flushing batches of
// up to cfg.BatchSize places every cfg.FlushInterval. It returns the first
// fatal error encountered (§7: backend-fatal or cancellation); per-item and
// transient-batch failures are retried internally and never returned.
func (ix *Indexer) Run(ctx context.Context, in <-chan domain.Place) error {
	ticker := time.NewTicker(ix.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]domain.Place, 0, ix.cfg.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := ix.flush(ctx, batch)
		batch = batch[:0]
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case p, ok := <-in:
			if !ok {
				return flush()
			}
			batch = append(batch, p)
			if len(batch) >= ix.cfg.BatchSize {
				if err := flush(); err != nil {
					return err
				}
			}

		case <-ticker.C:
			if err := flush(); err != nil {
				return err
			}
		}
	}
}

// flush issues one bulk_index call for batch, then retries any
// bulk-item-level failures up to cfg.MaxAttempts total tries before
// dropping the item with a logged error record (§4.5). Network/5xx
// failures on the whole request are already retried inside
// search.Backend.BulkIndex; a fatal status here aborts the run.
func (ix *Indexer) flush(ctx context.Context, batch []domain.Place) error {
	if ix.enricher != nil {
		ix.enricher.Enrich(ctx, batch)
	}

	byID := make(map[string]domain.Place, len(batch))
	docs := make([]search.Document, len(batch))
	for i, p := range batch {
		docs[i] = search.ToDocument(p)
		byID[p.ID] = p
	}

	attempt := 1
	for {
		result, err := ix.backend.BulkIndex(ctx, ix.index, docs)
		if err != nil {
			// §7 item 6 maps a fatal status to ErrBackendFatal; item 5
			// ("surfaces only after retry budget") maps an exhausted
			// transient failure to ErrBackendUnreachable. Either way the
			// run aborts without finalizing the version.
			return search.ClassifyBackendError(err)
		}

		if len(result.Failed) == 0 {
			ix.Stats.addIndexed(int64(len(docs)))
			return nil
		}

		ix.Stats.addIndexed(int64(len(docs) - len(result.Failed)))

		if attempt >= ix.cfg.MaxAttempts {
			for _, f := range result.Failed {
				ix.Stats.addDropped(1)
				if ix.log != nil {
					ix.log.Error("bulk item dropped after retry budget exhausted",
						zap.String("id", f.ID), zap.Int("status", f.Status), zap.String("reason", f.Reason))
				}
			}
			return nil
		}

		retryDocs := make([]search.Document, 0, len(result.Failed))
		for _, f := range result.Failed {
			if p, ok := byID[f.ID]; ok {
				retryDocs = append(retryDocs, search.ToDocument(p))
			}
		}
		if len(retryDocs) == 0 {
			return nil
		}

		select {
		case <-time.After(retry.DefaultPolicy.Delay(attempt - 1)):
		case <-ctx.Done():
			return ctx.Err()
		}
		docs = retryDocs
		attempt++
	}
}
