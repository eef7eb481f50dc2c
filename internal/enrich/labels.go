package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/location-microservice/geoingest/internal/pkg/retry"
)

// batchSize is the §4.4 "groups of at most B=50" fan-out size.
const batchSize = 50

// LabelsClient is the §4.4 bulk lookup client against the external labels
// service: given Wikidata-style QIDs, returns a per-language label map.
type LabelsClient struct {
	httpClient *http.Client
	baseURL    string
	policy     retry.Policy
	log        *zap.Logger
}

func NewLabelsClient(baseURL string, httpClient *http.Client, log *zap.Logger) *LabelsClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &LabelsClient{httpClient: httpClient, baseURL: baseURL, policy: retry.DefaultPolicy, log: log}
}

type labelsRequest struct {
	QIDs []string `json:"qids"`
}

type labelsResponse struct {
	Labels map[string]map[string]string `json:"labels"`
}

// httpStatusError carries the response status so retryableStatus can decide
// whether a failed attempt should be retried.
type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("labels service: unexpected status %d", e.status)
}

func retryableStatus(err error) bool {
	statusErr, ok := err.(*httpStatusError)
	if !ok {
		return true // network/decode errors: retry
	}
	return statusErr.status == http.StatusTooManyRequests || statusErr.status >= 500
}

// FetchAll batches qids into groups of batchSize and queries each. A batch
// that exhausts its retry budget logs a warning and is skipped (§4.4:
// "permanent failure logs a warning and leaves the name bundle untouched") —
// it never aborts the whole call.
func (c *LabelsClient) FetchAll(ctx context.Context, qids []string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(qids))
	for start := 0; start < len(qids); start += batchSize {
		end := start + batchSize
		if end > len(qids) {
			end = len(qids)
		}
		batch := qids[start:end]

		labels, err := c.fetchBatch(ctx, batch)
		if err != nil {
			if c.log != nil {
				c.log.Warn("labels service batch failed permanently",
					zap.Int("batch_size", len(batch)), zap.Error(err))
			}
			continue
		}
		for qid, byLang := range labels {
			out[qid] = byLang
		}
	}
	return out
}

func (c *LabelsClient) fetchBatch(ctx context.Context, qids []string) (map[string]map[string]string, error) {
	var result labelsResponse
	err := retry.Do(ctx, c.policy, retryableStatus, func() error {
		body, err := json.Marshal(labelsRequest{QIDs: qids})
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/labels", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &httpStatusError{status: resp.StatusCode}
		}
		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return nil, err
	}
	return result.Labels, nil
}
