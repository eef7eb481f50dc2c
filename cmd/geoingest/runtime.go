package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/location-microservice/geoingest/internal/config"
	"github.com/location-microservice/geoingest/internal/domain"
	"github.com/location-microservice/geoingest/internal/enrich"
	"github.com/location-microservice/geoingest/internal/pipeline"
	"github.com/location-microservice/geoingest/internal/pkg/logger"
	"github.com/location-microservice/geoingest/internal/search"
)

// runtime bundles the process-wide collaborators a Runner needs: the
// backend connection and the optional label cache, both worth reusing
// across the `batch` command's sequential regions instead of reconnecting
// per region.
type runtime struct {
	cfg    *config.Config
	log    *zap.Logger
	cache  *enrich.LabelCache
	runner *pipeline.Runner
}

func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func newRuntime(ctx context.Context, cfg *config.Config, log *zap.Logger) (*runtime, error) {
	backend := search.NewHTTPBackend(cfg.ElasticsearchURL, cfg.RequestTimeout, log)

	cache, err := enrich.NewLabelCache(ctx, cfg.RedisAddr, cfg.LabelCacheTTL, log)
	if err != nil {
		return nil, fmt.Errorf("connect label cache: %w", err)
	}

	runner := pipeline.NewRunner(backend, cfg, cache, log)
	return &runtime{cfg: cfg, log: log, cache: cache, runner: runner}, nil
}

func (r *runtime) Close() {
	if r.cache != nil {
		_ = r.cache.Close()
	}
}

// exitError carries the §6 process exit code alongside the underlying
// error so cobra's default error printing still shows the real cause.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

// flagError matches the teacher CLI's PreRunE validation-error shape.
func flagError(name string, value any, reason string) error {
	return fmt.Errorf("--%s=%v invalid: %s", name, value, reason)
}

func logRunSummary(log *zap.Logger, summary domain.RunSummary) {
	fields := []zap.Field{
		zap.String("run_id", summary.RunID),
		zap.String("source_file", summary.SourceFile),
		zap.Int64("version", summary.Version),
		zap.Int64("entities_read", summary.EntitiesRead),
		zap.Int64("places_indexed", summary.PlacesIndexed),
		zap.Int64("errors", summary.Errors),
		zap.Int64("stale_deleted", summary.StaleDeleted),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)),
	}
	if summary.Status == domain.RunSuccess {
		log.Info("ingest run finished", fields...)
		return
	}
	fields = append(fields, zap.String("failure_reason", summary.FailureReason))
	log.Error("ingest run failed", fields...)
}

// exitCodeFor maps an error returned from a RunE to the §6 process exit
// code: an exitError carries its own code, anything else is treated as a
// configuration error.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var ee exitError
	if ok := asExitError(err, &ee); ok {
		return ee.code
	}
	return 2
}

func asExitError(err error, target *exitError) bool {
	for err != nil {
		if ee, ok := err.(exitError); ok {
			*target = ee
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
