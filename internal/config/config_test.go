package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "order.events", cfg.OutboxTopic)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.True(t, cfg.Migrate)
	assert.Error(t, cfg.RequireAuth())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "http_addr: \":9000\"\nlog_level: debug\nkafka_addr:\n  - k1:9092\n  - k2:9092\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)

	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("KAFKA_ADDR", "a:1, b:2")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("IDEMPOTENCY_TTL", "15m")

	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.Equal(t, 15*time.Minute, cfg.IdempotencyTTL)
	assert.NoError(t, cfg.RequireAuth())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OUTBOX_TOPIC=pos.events\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("OUTBOX_TOPIC") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pos.events", cfg.OutboxTopic)
}
