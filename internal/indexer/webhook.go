package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/location-microservice/geoingest/internal/domain"
)

// NotifyWebhook POSTs the run summary to url once, on the success or failure
// path alike. It is observability, not part of the commit protocol: a
// failure here is logged and swallowed, never retried, never affects the
// run's exit code (§4.5 ambient-stack addition).
func NotifyWebhook(ctx context.Context, url string, summary domain.RunSummary, log *zap.Logger) {
	if url == "" {
		return
	}

	body, err := json.Marshal(summary)
	if err != nil {
		if log != nil {
			log.Warn("webhook: marshal run summary failed", zap.Error(err))
		}
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		if log != nil {
			log.Warn("webhook: build request failed", zap.Error(err))
		}
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if log != nil {
			log.Warn("webhook: post failed", zap.String("url", url), zap.Error(err))
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && log != nil {
		log.Warn("webhook: non-2xx response", zap.String("url", url), zap.Int("status", resp.StatusCode))
	}
}
