package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/location-microservice/geoingest/internal/domain"
)

func TestHTTPBackendBulkIndexReportsItemFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_bulk", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": true,
			"items": []map[string]interface{}{
				{"index": map[string]interface{}{"_id": "node/1", "status": 201}},
				{"index": map[string]interface{}{"_id": "node/2", "status": 429, "error": map[string]string{"reason": "rejected"}}},
			},
		})
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL, 0, nil)
	result, err := backend.BulkIndex(context.Background(), PlacesIndexName, []Document{{ID: "node/1"}, {ID: "node/2"}})
	require.NoError(t, err)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "node/2", result.Failed[0].ID)
}

func TestHTTPBackendKVGetMissingReturnsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL, 0, nil)
	var rec domain.SourceVersionRecord
	found, err := backend.KVGet(context.Background(), VersionIndexName, "switzerland-latest", &rec)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHTTPBackendKVPutAndGetRoundTrip(t *testing.T) {
	var stored json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			buf, _ := io.ReadAll(r.Body)
			stored = buf
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			resp, _ := json.Marshal(map[string]interface{}{"found": true, "_source": json.RawMessage(stored)})
			w.Write(resp)
		}
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL, 0, nil)
	store := NewVersionStore(backend)
	rec := domain.SourceVersionRecord{SourceFile: "switzerland-latest", CurrentVersion: 2, PreviousVersion: 1}
	require.NoError(t, store.Put(context.Background(), rec))

	got, found, err := store.Get(context.Background(), "switzerland-latest")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec.CurrentVersion, got.CurrentVersion)
	assert.Equal(t, rec.PreviousVersion, got.PreviousVersion)
}

func TestIsFatalDistinguishesClientFromThrottle(t *testing.T) {
	assert.True(t, IsFatal(&statusError{status: http.StatusBadRequest}))
	assert.False(t, IsFatal(&statusError{status: http.StatusTooManyRequests}))
	assert.False(t, IsFatal(&statusError{status: http.StatusInternalServerError}))
}

