package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/location-microservice/geoingest/internal/admin"
	"github.com/location-microservice/geoingest/internal/config"
	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/enrich"
	"github.com/location-microservice/geoingest/internal/indexer"
	"github.com/location-microservice/geoingest/internal/osmsource"
	apperrors "github.com/location-microservice/geoingest/internal/pkg/errors"
	"github.com/location-microservice/geoingest/internal/place"
	"github.com/location-microservice/geoingest/internal/road"
	"github.com/location-microservice/geoingest/internal/search"
)

// RunConfig is the per-invocation parameter set bound from the `single`
// command's flags (§6): everything that varies between one ingest run and
// the next, as opposed to config.Config's process-wide settings.
type RunConfig struct {
	File           string
	AdminFile      string // optional; defaults to File when empty
	ImportanceFile string
	Wikidata       bool
	CreateIndex    bool
	Refresh        bool
	MergeRoads     bool
	WebhookURL     string
}

// Runner wires S1-S4 together for one RunConfig, sharing the backend
// connection, label cache, and logger across repeated invocations (the
// `batch` command's regions).
type Runner struct {
	backend search.Backend
	cfg     *config.Config
	log     *zap.Logger
	cache   *enrich.LabelCache
}

// NewRunner constructs a Runner. cache may be nil (no label cache
// configured); it is owned by the caller and not closed here, so one Runner
// can serve many sequential RunConfig invocations (the `batch` command).
func NewRunner(backend search.Backend, cfg *config.Config, cache *enrich.LabelCache, log *zap.Logger) *Runner {
	return &Runner{backend: backend, cfg: cfg, log: log, cache: cache}
}

// Run executes the full S1->S4 pipeline for rc and returns the run summary
// (§7: "A run either ends 'success' ... or 'failed' with the first fatal
// reason"). The returned error is non-nil exactly when summary.Status ==
// domain.RunFailed.
func (rn *Runner) Run(ctx context.Context, rc RunConfig) (domain.RunSummary, error) {
	runID := uuid.NewString()
	started := time.Now()
	sourceFile := CanonicalSourceFile(rc.File)
	log := rn.log.With(zap.String("run_id", runID), zap.String("source_file", sourceFile))

	summary := domain.RunSummary{RunID: runID, SourceFile: sourceFile, StartedAt: started}

	refresher := indexer.NewRefresher(rn.backend, log)

	if rc.CreateIndex {
		if err := refresher.EnsureIndex(ctx, sourceFile); err != nil {
			return rn.finishFailed(summary, err, rc.WebhookURL, log)
		}
	}

	version := int64(1)
	if rc.Refresh {
		v, err := refresher.Begin(ctx, sourceFile, started)
		if err != nil {
			return rn.finishFailed(summary, err, rc.WebhookURL, log)
		}
		version = v
	}
	summary.Version = version

	file, err := os.Open(rc.File)
	if err != nil {
		wrapped := apperrors.ErrPBFOpen.WithDetails(map[string]interface{}{"file": rc.File, "error": err.Error()})
		return rn.finishFailed(summary, wrapped, rc.WebhookURL, log)
	}
	defer file.Close()

	var adminSrc io.ReadSeeker = file
	if rc.AdminFile != "" {
		adminFile, err := os.Open(rc.AdminFile)
		if err != nil {
			wrapped := apperrors.ErrPBFOpen.WithDetails(map[string]interface{}{"file": rc.AdminFile, "error": err.Error()})
			return rn.finishFailed(summary, wrapped, rc.WebhookURL, log)
		}
		defer adminFile.Close()
		adminSrc = adminFile
	}

	var entitiesRead int64

	assembler := admin.NewAssembler(log)
	entries, err := assembler.Assemble(ctx, adminSrc, rn.cfg.PBFWorkers)
	if err != nil {
		return rn.finishFailed(summary, err, rc.WebhookURL, log)
	}
	entitiesRead += assembler.Stats.RelationsSeen
	adminIndex := admin.Build(entries)
	log.Info("admin index built", zap.Int("polygons", adminIndex.Len()))

	wc, err := collectWays(ctx, file, rn.cfg.PBFWorkers)
	if err != nil {
		return rn.finishFailed(summary, err, rc.WebhookURL, log)
	}

	roadPending := wc.roadPending
	placePending := wc.placePending
	if !rc.MergeRoads {
		placePending = append(placePending, roadPending...)
		roadPending = nil
	}

	positions, err := resolveNodePositions(ctx, file, wc.neededNodes, rn.cfg.PBFWorkers)
	if err != nil {
		return rn.finishFailed(summary, err, rc.WebhookURL, log)
	}

	mergedRoads := road.Merge(buildRoadCandidates(roadPending, positions))
	wayCandidates := buildPlaceCandidates(placePending, positions)
	entitiesRead += int64(len(roadPending) + len(placePending))
	log.Info("road merge complete", zap.Int("merged_roads", len(mergedRoads)), zap.Int("way_places", len(wayCandidates)))

	enricher, err := rn.buildEnricher(rc, log)
	if err != nil {
		return rn.finishFailed(summary, err, rc.WebhookURL, log)
	}

	extractor := place.NewExtractor(adminIndex, sourceFile, version, rn.cfg.PlaceWorkers)
	ix := indexer.New(rn.backend, search.PlacesIndexName, indexer.Config{
		BatchSize:     rn.cfg.Indexer.BatchSize,
		FlushInterval: rn.cfg.Indexer.FlushInterval,
		MaxAttempts:   rn.cfg.Indexer.MaxAttempts,
	}, enricher, log)

	placeCh := make(chan place.Candidate, rn.cfg.Indexer.ChannelCapacity)
	extractedCh := make(chan domain.Place, rn.cfg.Indexer.ChannelCapacity)

	var nodesScanned int64
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(placeCh)
		for _, c := range wayCandidates {
			select {
			case placeCh <- c:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		n, err := streamNodeCandidates(gctx, file, placeCh)
		atomic.AddInt64(&nodesScanned, n)
		return err
	})

	g.Go(func() error {
		defer close(extractedCh)
		for _, r := range mergedRoads {
			p := extractor.FinalizeRoad(r)
			select {
			case extractedCh <- p:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return extractor.Run(gctx, placeCh, extractedCh)
	})

	g.Go(func() error {
		return ix.Run(gctx, extractedCh)
	})

	runErr := g.Wait()
	entitiesRead += atomic.LoadInt64(&nodesScanned)
	summary.EntitiesRead = entitiesRead
	summary.PlacesIndexed = ix.Stats.Indexed
	summary.Errors = ix.Stats.Dropped

	if runErr != nil {
		return rn.finishFailed(summary, runErr, rc.WebhookURL, log)
	}

	if rc.Refresh {
		deleted, err := refresher.Commit(ctx, sourceFile, version, started, time.Now())
		if err != nil {
			return rn.finishFailed(summary, err, rc.WebhookURL, log)
		}
		summary.StaleDeleted = deleted
	}

	summary.Status = domain.RunSuccess
	summary.FinishedAt = time.Now()
	log.Info("run succeeded",
		zap.Int64("entities_read", summary.EntitiesRead),
		zap.Int64("places_indexed", summary.PlacesIndexed),
		zap.Int64("stale_deleted", summary.StaleDeleted))
	indexer.NotifyWebhook(ctx, rc.WebhookURL, summary, log)
	return summary, nil
}

// finishFailed closes out summary as failed (§7: "A run either ends
// 'success' ... or 'failed' with the first fatal reason"). A bare
// context-cancellation error is classified into ErrRunCanceled (§7 item 7);
// any error already carrying a typed AppError code (ErrPBFOpen,
// ErrBackendFatal, ErrBackendUnreachable, ...) passes through as-is.
func (rn *Runner) finishFailed(summary domain.RunSummary, err error, webhookURL string, log *zap.Logger) (domain.RunSummary, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.ErrRunCanceled.WithDetails(map[string]interface{}{"error": err.Error()})
	}
	summary.Status = domain.RunFailed
	summary.FailureReason = err.Error()
	summary.FinishedAt = time.Now()
	log.Error("run failed", zap.Error(err))
	indexer.NotifyWebhook(context.Background(), webhookURL, summary, log)
	return summary, err
}

// buildEnricher loads the importance table (if configured) and wires the
// labels client (if --wikidata is set and a labels service URL is
// configured) into one §4.4 Enricher.
func (rn *Runner) buildEnricher(rc RunConfig, log *zap.Logger) (*enrich.Enricher, error) {
	var table enrich.ImportanceTable
	if rc.ImportanceFile != "" {
		f, err := os.Open(rc.ImportanceFile)
		if err != nil {
			return nil, fmt.Errorf("open importance file %q: %w", rc.ImportanceFile, err)
		}
		defer f.Close()
		table, err = enrich.LoadImportanceCSV(f)
		if err != nil {
			return nil, err
		}
		log.Info("importance table loaded", zap.Int("rows", len(table)))
	}

	var labelsClient *enrich.LabelsClient
	if rc.Wikidata && rn.cfg.LabelsServiceURL != "" {
		httpClient := &http.Client{Timeout: rn.cfg.RequestTimeout}
		labelsClient = enrich.NewLabelsClient(rn.cfg.LabelsServiceURL, httpClient, log)
	}

	return enrich.NewEnricher(table, labelsClient, rn.cache, log), nil
}

// streamNodeCandidates is the S3 full node pass: every node is handed to
// the extractor as a Candidate; Extractor.fromCandidate decides whether it
// survives filtering. It returns the number of nodes scanned.
func streamNodeCandidates(ctx context.Context, r io.ReadSeeker, out chan<- place.Candidate) (int64, error) {
	var count int64
	opts := osmsource.PassOptions{SkipWays: true, SkipRelations: true}
	err := osmsource.Scan(ctx, r, opts, osmsource.Handler{
		OnNode: func(n osmsource.Node) {
			atomic.AddInt64(&count, 1)
			c := place.Candidate{
				Type:     domain.EntityNode,
				OSMID:    n.ID,
				Position: orb.Point{n.Lon, n.Lat},
				Tags:     n.Tags,
			}
			select {
			case out <- c:
			case <-ctx.Done():
			}
		},
	})
	return atomic.LoadInt64(&count), err
}
