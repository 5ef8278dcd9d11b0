package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/impact-sim-service/internal/domain"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "impact-simulation-requests", cfg.KafkaSourceTopic)
	assert.Equal(t, "impact-simulation-results", cfg.KafkaSinkTopic)
	assert.Equal(t, "impact-sim", cfg.KafkaGroupID)
	assert.True(t, cfg.PipelineEnabled)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)

	assert.True(t, cfg.NASAEnabled)
	assert.Equal(t, "DEMO_KEY", cfg.NASAAPIKey)
	assert.Equal(t, "https://api.nasa.gov/neo/rest/v1", cfg.NASABaseURL)
	assert.Equal(t, 5*time.Second, cfg.NASATimeout)
	assert.Equal(t, 1.0, cfg.NASARateLimit)
	assert.Equal(t, time.Hour, cfg.NASACacheTTL)
	assert.Equal(t, 256, cfg.NASACacheSize)

	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 45.0, cfg.DefaultImpactAngle)
	assert.Equal(t, domain.OverlapArea, cfg.OverlapModel)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("NASA_API_KEY", "abc123")
	t.Setenv("NASA_BASE_URL", "http://localhost:9999/neo/rest/v1")
	t.Setenv("NASA_TIMEOUT", "10s")
	t.Setenv("NASA_RATE_LIMIT", "2.5")
	t.Setenv("NASA_CACHE_TTL", "15m")
	t.Setenv("NASA_CACHE_SIZE", "500")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DEFAULT_IMPACT_ANGLE", "90")
	t.Setenv("POPULATION_OVERLAP_MODEL", "cosine")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, "abc123", cfg.NASAAPIKey)
	assert.Equal(t, "http://localhost:9999/neo/rest/v1", cfg.NASABaseURL)
	assert.Equal(t, 10*time.Second, cfg.NASATimeout)
	assert.Equal(t, 2.5, cfg.NASARateLimit)
	assert.Equal(t, 15*time.Minute, cfg.NASACacheTTL)
	assert.Equal(t, 500, cfg.NASACacheSize)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90.0, cfg.DefaultImpactAngle)
	assert.Equal(t, domain.OverlapCosine, cfg.OverlapModel)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"BATCH_SIZE", "0"},
		{"BATCH_SIZE", "9999"},
		{"BATCH_FLUSH_INTERVAL", "not-a-duration"},
		{"NASA_TIMEOUT", "bad"},
		{"NASA_CACHE_TTL", "0s"},
		{"NASA_RATE_LIMIT", "0"},
		{"NASA_CACHE_SIZE", "-4"},
		{"REDIS_DB", "16"},
		{"DEFAULT_IMPACT_ANGLE", "0"},
		{"DEFAULT_IMPACT_ANGLE", "91"},
		{"POPULATION_OVERLAP_MODEL", "volume"},
		{"NASA_BASE_URL", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_PipelineDisabledSkipsKafkaChecks(t *testing.T) {
	t.Setenv("PIPELINE_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", " , ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.PipelineEnabled)
}

func TestLoad_NASAExplicitlyDisabled(t *testing.T) {
	t.Setenv("NASA_ENABLED", "false")
	t.Setenv("NASA_BASE_URL", "not a url")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.NASAEnabled)
}
