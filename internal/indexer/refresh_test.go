package indexer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/location-microservice/geoingest/internal/search"
)

// fakeVersionBackend is a minimal in-memory search.Backend: KVGet/KVPut
// round-trip through JSON exactly like the real httpBackend does against
// the wire, so Refresher is exercised the same way either backend would
// drive it.
type fakeVersionBackend struct {
	search.Backend
	kv               map[string][]byte
	stubbedDeleted   int64
	lastBelowVersion int64
	deletedIndexes   []string
}

func newFakeVersionBackend() *fakeVersionBackend {
	return &fakeVersionBackend{kv: make(map[string][]byte)}
}

func (b *fakeVersionBackend) KVGet(ctx context.Context, auxIndex, key string, out interface{}) (bool, error) {
	raw, ok := b.kv[auxIndex+"/"+key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (b *fakeVersionBackend) KVPut(ctx context.Context, auxIndex, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	b.kv[auxIndex+"/"+key] = raw
	return nil
}

func (b *fakeVersionBackend) DeleteByQuery(ctx context.Context, index, sourceFile string, belowVersion int64) (int64, error) {
	b.lastBelowVersion = belowVersion
	return b.stubbedDeleted, nil
}

func (b *fakeVersionBackend) DeleteIndex(ctx context.Context, name string) error {
	b.deletedIndexes = append(b.deletedIndexes, name)
	return nil
}

func (b *fakeVersionBackend) CreateIndex(ctx context.Context, name string, schema map[string]interface{}) error {
	return nil
}

func TestRefresherBeginAssignsIncrementingVersion(t *testing.T) {
	backend := newFakeVersionBackend()
	r := NewRefresher(backend, nil)

	v1, err := r.Begin(context.Background(), "switzerland-latest", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)

	_, err = r.Commit(context.Background(), "switzerland-latest", v1, time.Now(), time.Now())
	require.NoError(t, err)

	v2, err := r.Begin(context.Background(), "switzerland-latest", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2)
}

func TestRefresherCommitPurgesBelowNewVersion(t *testing.T) {
	backend := newFakeVersionBackend()
	r := NewRefresher(backend, nil)

	backend.stubbedDeleted = 3
	deleted, err := r.Commit(context.Background(), "switzerland-latest", 2, time.Now(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, int64(2), backend.lastBelowVersion)
}

func TestRefresherCommitPreservesOriginalStartedAt(t *testing.T) {
	backend := newFakeVersionBackend()
	r := NewRefresher(backend, nil)

	startedAt := time.Now().Add(-2 * time.Hour).Truncate(time.Millisecond)
	finishedAt := time.Now().Truncate(time.Millisecond)

	_, err := r.Commit(context.Background(), "switzerland-latest", 2, startedAt, finishedAt)
	require.NoError(t, err)

	rec, found, err := search.NewVersionStore(backend).Get(context.Background(), "switzerland-latest")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, rec.StartedAt.Equal(startedAt))
	require.NotNil(t, rec.FinishedAt)
	assert.True(t, rec.FinishedAt.Equal(finishedAt))
	assert.False(t, rec.StartedAt.Equal(*rec.FinishedAt))
}

func TestRefresherEnsureIndexRecreatesAndResetsVersions(t *testing.T) {
	backend := newFakeVersionBackend()
	r := NewRefresher(backend, nil)

	require.NoError(t, r.EnsureIndex(context.Background(), "switzerland-latest"))
	require.Len(t, backend.deletedIndexes, 1)

	rec, found, err := search.NewVersionStore(backend).Get(context.Background(), "switzerland-latest")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(0), rec.CurrentVersion)
}
