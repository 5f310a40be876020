package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "notifications.email", cfg.RabbitConfig.Queue)
	assert.Equal(t, 60*time.Second, cfg.DirectoryTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, 5, cfg.Reconciler.MaxAttempts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TOURGUIDE_SERVICE_PORT", ":9000")
	t.Setenv("TOURGUIDE_KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("TOURGUIDE_JWT_TTL", "2h")
	t.Setenv("TOURGUIDE_REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.JWTConfig.TTL)
	assert.Equal(t, "redis:6379", cfg.RedisConfig.Addr)
}
