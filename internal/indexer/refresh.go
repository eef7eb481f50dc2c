package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/search"
)

// Refresher implements the §4.5 refresh protocol: version assignment before
// ingest, and stale-document purge after a successful run.
type Refresher struct {
	backend search.Backend
	store   *search.VersionStore
	log     *zap.Logger
}

func NewRefresher(backend search.Backend, log *zap.Logger) *Refresher {
	return &Refresher{backend: backend, store: search.NewVersionStore(backend), log: log}
}

// Begin reads the current record for sourceFile (if any), assigns
// new = previous + 1, and persists {current=new, previous=old, started_at}
// before a single document is indexed. The returned version must be stamped
// onto every place the run emits.
func (r *Refresher) Begin(ctx context.Context, sourceFile string, now time.Time) (newVersion int64, err error) {
	existing, found, err := r.store.Get(ctx, sourceFile)
	if err != nil {
		return 0, err
	}

	previous := int64(0)
	if found {
		previous = existing.CurrentVersion
	}
	newVersion = previous + 1

	rec := domain.SourceVersionRecord{
		SourceFile:      sourceFile,
		CurrentVersion:  newVersion,
		PreviousVersion: previous,
		StartedAt:       now,
	}
	if err := r.store.Put(ctx, rec); err != nil {
		return 0, err
	}
	if r.log != nil {
		r.log.Info("refresh begun", zap.String("source_file", sourceFile), zap.Int64("version", newVersion), zap.Int64("previous_version", previous))
	}
	return newVersion, nil
}

// Commit issues the §4.5 post-ingest delete_by_query purging every document
// from sourceFile with a version strictly below newVersion, then marks
// finished_at. It must only be called after the full run reports success
// (§7: "the refresh delete is only issued when the full run reports
// success"). startedAt must be the same instant passed to Begin, so the
// committed record keeps the run's real start time instead of collapsing
// started_at and finished_at onto the commit instant.
func (r *Refresher) Commit(ctx context.Context, sourceFile string, newVersion int64, startedAt, finishedAt time.Time) (staleDeleted int64, err error) {
	deleted, err := r.backend.DeleteByQuery(ctx, search.PlacesIndexName, sourceFile, newVersion)
	if err != nil {
		return 0, fmt.Errorf("indexer: purge stale docs for %q: %w", sourceFile, search.ClassifyBackendError(err))
	}

	rec := domain.SourceVersionRecord{
		SourceFile:      sourceFile,
		CurrentVersion:  newVersion,
		PreviousVersion: newVersion - 1,
		StartedAt:       startedAt,
		FinishedAt:      &finishedAt,
	}
	if err := r.store.Put(ctx, rec); err != nil {
		return deleted, err
	}
	if r.log != nil {
		r.log.Info("refresh committed", zap.String("source_file", sourceFile), zap.Int64("version", newVersion), zap.Int64("stale_deleted", deleted))
	}
	return deleted, nil
}

// ResetAll deletes the version auxiliary index wholesale (the
// `reset-versions` CLI command, §6).
func (r *Refresher) ResetAll(ctx context.Context) error {
	return r.store.Reset(ctx)
}

// EnsureIndex implements the §4.5 create-index flag: delete the places
// index if present, recreate it from schema, and reset the version record
// for sourceFiles about to be ingested.
func (r *Refresher) EnsureIndex(ctx context.Context, sourceFiles ...string) error {
	if err := r.backend.DeleteIndex(ctx, search.PlacesIndexName); err != nil {
		return fmt.Errorf("indexer: delete existing index: %w", search.ClassifyBackendError(err))
	}
	if err := r.backend.CreateIndex(ctx, search.PlacesIndexName, search.PlacesSchema); err != nil {
		return fmt.Errorf("indexer: create index: %w", search.ClassifyBackendError(err))
	}
	for _, sf := range sourceFiles {
		if err := r.backend.KVPut(ctx, search.VersionIndexName, sf, domain.SourceVersionRecord{SourceFile: sf}); err != nil {
			return fmt.Errorf("indexer: reset version record for %q: %w", sf, search.ClassifyBackendError(err))
		}
	}
	return nil
}
