package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openpermit/openpermit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openpermit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
worker:
  validation_delay: 25ms
transport:
  kind: redis
  redis:
    addr: redis:6379
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25*time.Millisecond, cfg.Worker.ValidationDelay)
	assert.Equal(t, 32, cfg.Worker.MaxInFlight, "unset keys keep their default")
	assert.Equal(t, config.TransportRedis, cfg.Transport.Kind)
	assert.Equal(t, "redis:6379", cfg.Transport.Redis.Addr)
	assert.Equal(t, "openpermit:", cfg.Transport.Redis.Prefix)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openpermit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  kind: carrier-pigeon\n"), 0o644))
	_, err := config.Load(path)
	assert.ErrorContains(t, err, "transport.kind")

	require.NoError(t, os.WriteFile(path, []byte("worker: [\n"), 0o644))
	_, err = config.Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("worker:\n  validation_delay: 0s\n"), 0o644))
	_, err = config.Load(path)
	assert.ErrorContains(t, err, "worker.validation_delay must be positive")
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "openpermit.yaml")
	cfg := config.Default()
	cfg.Server.Addr = ":9090"
	cfg.Worker.ValidationDelay = 50 * time.Millisecond

	require.NoError(t, config.Save(path, cfg))
	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetSet(t *testing.T) {
	cfg := config.Default()

	v, err := cfg.Get("worker.validation_delay")
	require.NoError(t, err)
	assert.Equal(t, "10ms", v)

	require.NoError(t, cfg.Set("worker.validation_delay", "1s"))
	assert.Equal(t, time.Second, cfg.Worker.ValidationDelay)

	require.NoError(t, cfg.Set("worker.max_in_flight", "8"))
	assert.Equal(t, 8, cfg.Worker.MaxInFlight)

	require.NoError(t, cfg.Set("transport.redis.db", "3"))
	assert.Equal(t, 3, cfg.Transport.Redis.DB)
	assert.Equal(t, time.Second, cfg.Worker.ValidationDelay, "other settings survive a set")

	v, err = cfg.Get("transport.redis.db")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestSet_Rejects(t *testing.T) {
	cfg := config.Default()

	assert.Error(t, cfg.Set("worker.nope", "1"))
	assert.Error(t, cfg.Set("transport", "redis"), "sections cannot be assigned")
	assert.Error(t, cfg.Set("worker.max_in_flight", "many"))
	assert.Error(t, cfg.Set("worker.max_in_flight", "0"))
	assert.Error(t, cfg.Set("worker.validation_delay", "0s"))
	assert.Error(t, cfg.Set("worker.validation_delay", "-5ms"))
	assert.Error(t, cfg.Set("transport.kind", "carrier-pigeon"))
	assert.Equal(t, config.Default(), cfg, "failed sets leave the config untouched")

	_, err := cfg.Get("log.colour")
	assert.Error(t, err)
	_, err = cfg.Get("log")
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	pairs, err := config.Default().Flatten()
	require.NoError(t, err)

	got := map[string]string{}
	var keys []string
	for _, p := range pairs {
		got[p[0]] = p[1]
		keys = append(keys, p[0])
	}
	assert.IsIncreasing(t, keys)
	assert.Equal(t, "memory", got["transport.kind"])
	assert.Equal(t, "1s", got["transport.redis.poll_interval"])
	assert.Equal(t, ":8080", got["server.addr"])
}

func TestProcessTransport(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Set("transport.kind", "process"))
	require.NoError(t, cfg.Set("transport.process.command", "/usr/local/bin/openpermit"))
	assert.Equal(t, config.TransportProcess, cfg.Transport.Kind)
	assert.Equal(t, "/usr/local/bin/openpermit", cfg.Transport.Process.Command)

	path := filepath.Join(t.TempDir(), "openpermit.yaml")
	require.NoError(t, config.Save(path, cfg))
	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
