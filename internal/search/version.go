package search

import (
	"context"
	"fmt"

	"github.com/location-microservice/geoingest/internal/domain"
)

// VersionStore wraps the kv_get/kv_put auxiliary index with the
// domain.SourceVersionRecord shape (§3, §4.5).
type VersionStore struct {
	backend Backend
}

func NewVersionStore(backend Backend) *VersionStore {
	return &VersionStore{backend: backend}
}

// Get reads the current record for sourceFile, or the zero value with
// found=false if none exists yet.
func (s *VersionStore) Get(ctx context.Context, sourceFile string) (domain.SourceVersionRecord, bool, error) {
	var rec domain.SourceVersionRecord
	found, err := s.backend.KVGet(ctx, VersionIndexName, sourceFile, &rec)
	if err != nil {
		return domain.SourceVersionRecord{}, false, fmt.Errorf("search: get version record for %q: %w", sourceFile, ClassifyBackendError(err))
	}
	return rec, found, nil
}

// Put persists rec, keyed by rec.SourceFile.
func (s *VersionStore) Put(ctx context.Context, rec domain.SourceVersionRecord) error {
	if err := s.backend.KVPut(ctx, VersionIndexName, rec.SourceFile, rec); err != nil {
		return fmt.Errorf("search: put version record for %q: %w", rec.SourceFile, ClassifyBackendError(err))
	}
	return nil
}

// Reset deletes the whole auxiliary version index (the `reset-versions` CLI
// command, §6).
func (s *VersionStore) Reset(ctx context.Context) error {
	return s.backend.DeleteIndex(ctx, VersionIndexName)
}
