package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/anilink/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anilink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
store:
  backend: redis
  redis:
    addr: redis:6379
    ttl: 10m
subjects:
  - id: dog
    action: barks
  - id: cat
    action: meows
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Store.Redis.TTL)
	assert.Equal(t, "anilink:subject:", cfg.Store.Redis.Prefix, "unset keys keep their default")
	assert.True(t, cfg.Store.Redis.Lock)

	require.Len(t, cfg.Subjects, 2)
	assert.Equal(t, "dog", cfg.Subjects[0].ID)
	assert.Equal(t, "barks", cfg.Subjects[0].ActionLabel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "log: [", "failed to parse"},
		{"unknown backend", "store:\n  backend: etcd\n", "unknown store backend"},
		{"missing action", "subjects:\n  - id: dog\n", "action is required"},
		{"missing id", "subjects:\n  - action: barks\n", "id is required"},
		{"duplicate id", "subjects:\n  - {id: dog, action: barks}\n  - {id: dog, action: howls}\n", "duplicate id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
