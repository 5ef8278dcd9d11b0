package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/impact-sim-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	PipelineEnabled  bool
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// NASA NeoWs configuration.
	NASAEnabled   bool
	NASAAPIKey    string
	NASABaseURL   string
	NASATimeout   time.Duration
	NASARateLimit float64
	NASACacheTTL  time.Duration
	NASACacheSize int

	// Redis backs the NeoWs cache when RedisAddr is set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DefaultImpactAngle float64
	OverlapModel       domain.OverlapModel
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if
// present; real environment variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}
	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	nasaTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NASA_TIMEOUT", "5s"))
	if err != nil || nasaTimeout <= 0 {
		return nil, errors.New("invalid NASA_TIMEOUT")
	}
	nasaCacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("NASA_CACHE_TTL", "1h"))
	if err != nil || nasaCacheTTL <= 0 {
		return nil, errors.New("invalid NASA_CACHE_TTL")
	}
	nasaRateLimit, err := parseFloatInRange("NASA_RATE_LIMIT", 1, 0, 1000)
	if err != nil {
		return nil, err
	}
	nasaCacheSize, err := parseIntInRange("NASA_CACHE_SIZE", 256, 1, 1_000_000)
	if err != nil {
		return nil, err
	}
	redisDB, err := parseIntInRange("REDIS_DB", 0, 0, 15)
	if err != nil {
		return nil, err
	}
	angle, err := parseFloatInRange("DEFAULT_IMPACT_ANGLE", domain.DefaultImpactAngle, 0, 90)
	if err != nil {
		return nil, err
	}
	overlap, err := domain.ParseOverlapModel(sharedcfg.EnvOrDefault("POPULATION_OVERLAP_MODEL", string(domain.OverlapArea)))
	if err != nil {
		return nil, fmt.Errorf("invalid POPULATION_OVERLAP_MODEL: %w", err)
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "impact-simulation-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "impact-simulation-results"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "impact-sim"),
		PipelineEnabled:    os.Getenv("PIPELINE_ENABLED") != "false",
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		NASAEnabled:   os.Getenv("NASA_ENABLED") != "false",
		NASAAPIKey:    sharedcfg.EnvOrDefault("NASA_API_KEY", "DEMO_KEY"),
		NASABaseURL:   sharedcfg.EnvOrDefault("NASA_BASE_URL", "https://api.nasa.gov/neo/rest/v1"),
		NASATimeout:   nasaTimeout,
		NASARateLimit: nasaRateLimit,
		NASACacheTTL:  nasaCacheTTL,
		NASACacheSize: nasaCacheSize,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		DefaultImpactAngle: angle,
		OverlapModel:       overlap,
	}

	if cfg.PipelineEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if cfg.NASAEnabled {
		if u, err := url.Parse(cfg.NASABaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, errors.New("invalid NASA_BASE_URL: must be an absolute URL")
		}
	}

	return cfg, nil
}
