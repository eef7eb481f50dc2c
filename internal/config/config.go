// Package config loads the ingest binary's ambient configuration: the
// search-backend and labels-service endpoints, the optional label cache,
// logging, and the S4 bulk-protocol tuning knobs. Per-run flags (--file,
// --refresh, --merge-roads, ...) are bound directly on the cobra commands in
// cmd/geoingest and passed to the pipeline as a separate, smaller struct;
// this Config only holds settings that make sense shared across a whole
// process invocation (§6 "Environment").
package config

import (
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/location-microservice/geoingest/internal/pkg/errors"
	"github.com/location-microservice/geoingest/internal/pkg/validator"
)

// IndexerConfig tunes the §4.5 bulk protocol.
type IndexerConfig struct {
	BatchSize       int           `mapstructure:"batch_size" validate:"required,gt=0"`
	FlushInterval   time.Duration `mapstructure:"flush_interval" validate:"required"`
	ChannelCapacity int           `mapstructure:"channel_capacity" validate:"required,gt=0"`
	MaxAttempts     int           `mapstructure:"max_attempts" validate:"required,gt=0"`
}

// Config is the process-wide ingest configuration (§6 "Environment").
type Config struct {
	ElasticsearchURL string        `mapstructure:"es_url" validate:"required,url"`
	LabelsServiceURL string        `mapstructure:"labels_service_url" validate:"omitempty,url"`
	RedisAddr        string        `mapstructure:"redis_addr"`
	LabelCacheTTL    time.Duration `mapstructure:"label_cache_ttl" validate:"required"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout" validate:"required"`
	LogLevel         string        `mapstructure:"log_level" validate:"required"`
	PBFWorkers       int           `mapstructure:"pbf_workers" validate:"required,gt=0"`
	PlaceWorkers     int           `mapstructure:"place_workers" validate:"required,gt=0"`
	Indexer          IndexerConfig `mapstructure:"indexer"`
}

// bindDefaults sets every default this process needs to run with zero
// configuration beyond --file, the same role the teacher's block of
// `if cfg.X == 0 { cfg.X = ... }` post-load assignments plays, expressed
// through viper.SetDefault instead.
func bindDefaults(v *viper.Viper) {
	v.SetDefault("es_url", "http://localhost:9200")
	v.SetDefault("labels_service_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("label_cache_ttl", 24*time.Hour)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("pbf_workers", 4)
	v.SetDefault("place_workers", 4)
	v.SetDefault("indexer.batch_size", 500)
	v.SetDefault("indexer.flush_interval", 2*time.Second)
	v.SetDefault("indexer.channel_capacity", 2000) // 4x default batch_size (§4.5)
	v.SetDefault("indexer.max_attempts", 5)
}

// Load reads process configuration from the environment, applying the §6
// defaults and env-var names (ELASTICSEARCH_URL, LABELS_SERVICE_URL,
// REDIS_ADDR, LOG_LEVEL). It never reads a dotfile: unlike the teacher's
// `.env`-backed Load, this process is a one-shot CLI invocation whose
// per-run parameters come from cobra/pflag flags, not a project config file.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	bindDefaults(v)

	_ = v.BindEnv("es_url", "ELASTICSEARCH_URL")
	_ = v.BindEnv("labels_service_url", "LABELS_SERVICE_URL")
	_ = v.BindEnv("redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	cfg := &Config{
		ElasticsearchURL: v.GetString("es_url"),
		LabelsServiceURL: v.GetString("labels_service_url"),
		RedisAddr:        v.GetString("redis_addr"),
		LabelCacheTTL:    v.GetDuration("label_cache_ttl"),
		RequestTimeout:   v.GetDuration("request_timeout"),
		LogLevel:         v.GetString("log_level"),
		PBFWorkers:       v.GetInt("pbf_workers"),
		PlaceWorkers:     v.GetInt("place_workers"),
		Indexer: IndexerConfig{
			BatchSize:       v.GetInt("indexer.batch_size"),
			FlushInterval:   v.GetDuration("indexer.flush_interval"),
			ChannelCapacity: v.GetInt("indexer.channel_capacity"),
			MaxAttempts:     v.GetInt("indexer.max_attempts"),
		},
	}

	if err := validator.Validate(cfg); err != nil {
		return nil, apperrors.ErrConfigInvalid.WithDetails(map[string]interface{}{"error": err.Error()})
	}
	return cfg, nil
}
