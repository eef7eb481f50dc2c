package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/location-microservice/geoingest/internal/pkg/errors"
	"github.com/location-microservice/geoingest/internal/pkg/retry"
)

// BulkItemError is one document's failure inside an otherwise-successful
// bulk request (§4.5: "retry the failing items with exponential backoff").
type BulkItemError struct {
	ID     string
	Status int
	Reason string
}

// BulkResult reports per-document outcomes of one BulkIndex call.
type BulkResult struct {
	Failed []BulkItemError
}

// Backend is the §4.5 backend contract: index lifecycle, bulk indexing,
// delete-by-query, and the versioned kv auxiliary index. The ingest core
// only ever sees this interface; the concrete httpBackend is the sole
// implementation, reached over HTTP against --es-url/ELASTICSEARCH_URL.
type Backend interface {
	CreateIndex(ctx context.Context, name string, schema map[string]interface{}) error
	DeleteIndex(ctx context.Context, name string) error
	BulkIndex(ctx context.Context, index string, docs []Document) (BulkResult, error)
	DeleteByQuery(ctx context.Context, index string, sourceFile string, belowVersion int64) (int64, error)
	KVGet(ctx context.Context, auxIndex, key string, out interface{}) (bool, error)
	KVPut(ctx context.Context, auxIndex, key string, value interface{}) error
}

// httpBackend implements Backend against an Elasticsearch-compatible HTTP
// API, shaped the same way the teacher's mapbox.client wraps a third-party
// REST API: a bare http.Client, a base URL, and one method per operation
// that builds the request, checks the status code, and decodes JSON.
type httpBackend struct {
	httpClient *http.Client
	baseURL    string
	policy     retry.Policy
	log        *zap.Logger
}

// NewHTTPBackend builds a Backend talking to an Elasticsearch-compatible
// endpoint at baseURL, with the §5 default 30s per-request timeout.
func NewHTTPBackend(baseURL string, timeout time.Duration, log *zap.Logger) Backend {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpBackend{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		policy:     retry.DefaultPolicy,
		log:        log,
	}
}

// statusError carries a response status so callers (and retry.Do via
// retryableStatus) can distinguish transient (429/5xx) from fatal (other
// 4xx) backend failures, per §7 error kinds 5 and 6.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("search backend: status %d: %s", e.status, e.body)
}

// IsFatal reports whether err represents a §7 "backend fatal" response (any
// 4xx other than 429) as opposed to a transient one already exhausted by
// retry.
func IsFatal(err error) bool {
	var se *statusError
	if !asStatusError(err, &se) {
		return false
	}
	return se.status >= 400 && se.status < 500 && se.status != http.StatusTooManyRequests
}

// ClassifyBackendError maps a raw backend-call error into the §7 fatal/
// transient AppError kinds so a caller that must abort the run (indexer
// flush, refresh begin/commit, ensure-index) surfaces a typed
// ErrBackendFatal or ErrBackendUnreachable instead of an opaque
// *statusError. Errors that aren't a *statusError (context cancellation,
// JSON decode failures, transport errors never wrapped by do()) pass
// through unchanged.
func ClassifyBackendError(err error) error {
	if err == nil {
		return nil
	}
	var se *statusError
	if !asStatusError(err, &se) {
		return err
	}
	if IsFatal(err) {
		return apperrors.ErrBackendFatal.WithDetails(map[string]interface{}{
			"status": se.status,
			"body":   se.body,
		})
	}
	return apperrors.ErrBackendUnreachable.WithDetails(map[string]interface{}{
		"status": se.status,
		"body":   se.body,
	})
}

func asStatusError(err error, target **statusError) bool {
	se, ok := err.(*statusError)
	if ok {
		*target = se
	}
	return ok
}

func retryableStatus(err error) bool {
	se, ok := err.(*statusError)
	if !ok {
		return true
	}
	return se.status == http.StatusTooManyRequests || se.status >= 500
}

func (b *httpBackend) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	return retry.Do(ctx, b.policy, retryableStatus, func() error {
		var reader io.Reader
		if body != nil {
			buf, err := json.Marshal(body)
			if err != nil {
				return err
			}
			reader = bytes.NewReader(buf)
		}
		req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := b.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 300 {
			return &statusError{status: resp.StatusCode, body: string(respBody)}
		}
		if out != nil && len(respBody) > 0 {
			return json.Unmarshal(respBody, out)
		}
		return nil
	})
}

func (b *httpBackend) CreateIndex(ctx context.Context, name string, schema map[string]interface{}) error {
	err := b.do(ctx, http.MethodPut, "/"+name, schema, nil)
	if err != nil && b.log != nil {
		b.log.Error("create_index failed", zap.String("index", name), zap.Error(err))
	}
	return err
}

func (b *httpBackend) DeleteIndex(ctx context.Context, name string) error {
	err := b.do(ctx, http.MethodDelete, "/"+name, nil, nil)
	if err != nil {
		var se *statusError
		if asStatusError(err, &se) && se.status == http.StatusNotFound {
			return nil
		}
		if b.log != nil {
			b.log.Error("delete_index failed", zap.String("index", name), zap.Error(err))
		}
	}
	return err
}

// bulkAction is the NDJSON action line written before each document of an
// Elasticsearch _bulk request.
type bulkAction struct {
	Index *bulkMeta `json:"index"`
}

type bulkMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

type bulkResponseItem struct {
	Index struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"index"`
}

type bulkResponse struct {
	Errors bool               `json:"errors"`
	Items  []bulkResponseItem `json:"items"`
}

// BulkIndex issues one NDJSON _bulk request for docs, each upserted with
// its explicit document id. Network/5xx failures on the whole request retry
// via retry.Do inside do(); per-item failures reported in a 200 response are
// surfaced in BulkResult for the caller to retry (§4.5).
func (b *httpBackend) BulkIndex(ctx context.Context, index string, docs []Document) (BulkResult, error) {
	if len(docs) == 0 {
		return BulkResult{}, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		if err := enc.Encode(bulkAction{Index: &bulkMeta{Index: index, ID: d.ID}}); err != nil {
			return BulkResult{}, err
		}
		if err := enc.Encode(d); err != nil {
			return BulkResult{}, err
		}
	}

	var result bulkResponse
	err := retry.Do(ctx, b.policy, retryableStatus, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/_bulk", bytes.NewReader(buf.Bytes()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-ndjson")

		resp, err := b.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 300 {
			return &statusError{status: resp.StatusCode, body: string(respBody)}
		}
		return json.Unmarshal(respBody, &result)
	})
	if err != nil {
		return BulkResult{}, err
	}

	var out BulkResult
	if result.Errors {
		for _, item := range result.Items {
			if item.Index.Status >= 300 {
				reason := ""
				if item.Index.Error != nil {
					reason = item.Index.Error.Reason
				}
				out.Failed = append(out.Failed, BulkItemError{ID: item.Index.ID, Status: item.Index.Status, Reason: reason})
			}
		}
	}
	return out, nil
}

type deleteByQueryRequest struct {
	Query map[string]interface{} `json:"query"`
}

type deleteByQueryResponse struct {
	Deleted int64 `json:"deleted"`
}

// DeleteByQuery implements the §4.5 refresh-purge call: delete every
// document in index whose source_file matches and version is strictly
// below belowVersion.
func (b *httpBackend) DeleteByQuery(ctx context.Context, index string, sourceFile string, belowVersion int64) (int64, error) {
	body := deleteByQueryRequest{
		Query: map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"source_file": sourceFile}},
					{"range": map[string]interface{}{"version": map[string]interface{}{"lt": belowVersion}}},
				},
			},
		},
	}
	var resp deleteByQueryResponse
	if err := b.do(ctx, http.MethodPost, "/"+index+"/_delete_by_query", body, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

type kvDoc struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

// KVGet reads the small record stored at (auxIndex, key) into out. It
// returns false, nil when no record exists yet (the first run against a
// source_file).
func (b *httpBackend) KVGet(ctx context.Context, auxIndex, key string, out interface{}) (bool, error) {
	var doc kvDoc
	err := b.do(ctx, http.MethodGet, "/"+auxIndex+"/_doc/"+escapeDocID(key), nil, &doc)
	if err != nil {
		var se *statusError
		if asStatusError(err, &se) && se.status == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	if !doc.Found {
		return false, nil
	}
	return true, json.Unmarshal(doc.Source, out)
}

// KVPut writes value at (auxIndex, key), overwriting any prior record.
func (b *httpBackend) KVPut(ctx context.Context, auxIndex, key string, value interface{}) error {
	return b.do(ctx, http.MethodPut, "/"+auxIndex+"/_doc/"+escapeDocID(key), value, nil)
}

func escapeDocID(key string) string {
	return url.PathEscape(key)
}
