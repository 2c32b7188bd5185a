package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("TICKETS_STRICT_TRANSITIONS", "")
	t.Setenv("TICKETS_ADMIN_SCOPE", "")
	t.Setenv("POSTGRES_SLOW_QUERY_MS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.True(t, cfg.Tickets.StrictTransitions)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Equal(t, 500, cfg.Postgres.SlowQueryMs)
	assert.Equal(t, "company", cfg.Tickets.AdminScope)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("TICKETS_STRICT_TRANSITIONS", "false")
	t.Setenv("PORTAL_BACKEND_URL", "http://backend:8000/")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")
	t.Setenv("TICKETS_ADMIN_SCOPE", "assigned")
	t.Setenv("POSTGRES_SLOW_QUERY_MS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Tickets.StrictTransitions)
	assert.Equal(t, "http://backend:8000", cfg.Portal.BackendURL)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "assigned", cfg.Tickets.AdminScope)
	assert.Zero(t, cfg.Postgres.SlowQueryMs)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")
	_, err := Load()
	assert.Error(t, err)
}
