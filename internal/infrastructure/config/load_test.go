package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("ParsesFullConfig", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
  write_timeout: 15s
  shutdown_timeout: 20s
postgresql:
  host: db.internal
  port: 5433
  user: app
  password: secret
  database: market
  ssl_mode: require
redis:
  host: cache.internal
  port: 6380
  ttl: 30s
streams:
  - name: primary
    url: ws://example.test/socket
    user_id: abc-123
    opportunities_limit: 25
    enabled: true
analyzer:
  base_url: https://analyzer.test/v1
  timeout: 3s
trading_pairs: [BTCUSD, ETHUSD]
workers:
  persist: 4
logging:
  level: debug
  format: json
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 20*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
		assert.Equal(t, 3*time.Second, cfg.Analyzer.Timeout)

		require.Len(t, cfg.Streams, 1)
		assert.Equal(t, "primary", cfg.Streams[0].Name)
		assert.Equal(t, 25, cfg.Streams[0].OpportunitiesLimit)
		assert.True(t, cfg.Streams[0].Enabled)

		assert.Equal(t, []string{"BTCUSD", "ETHUSD"}, cfg.TradingPairs)
		assert.Equal(t, 4, cfg.Workers.Persist)

		assert.Equal(t,
			"host=db.internal port=5433 user=app password=secret dbname=market sslmode=require",
			cfg.PostgresDSN())
		assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `{}`))
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, time.Minute, cfg.Redis.TTL)
		assert.Equal(t, 2, cfg.Workers.Persist)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "text", cfg.Logging.Format)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("POSTGRES_HOST", "pg.override")
		t.Setenv("REDIS_PORT", "7000")
		t.Setenv("SERVER_PORT", "8888")
		t.Setenv("STREAM_URL", "ws://override.test/socket")

		cfg, err := Load(writeConfig(t, `
server:
  port: 8080
streams:
  - name: primary
    url: ws://original.test/socket
`))
		require.NoError(t, err)

		assert.Equal(t, "pg.override", cfg.PostgreSQL.Host)
		assert.Equal(t, 7000, cfg.Redis.Port)
		assert.Equal(t, 8888, cfg.Server.Port)
		assert.Equal(t, "ws://override.test/socket", cfg.Streams[0].URL)
	})

	t.Run("InvalidDuration", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
server:
  read_timeout: not-a-duration
`))
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
