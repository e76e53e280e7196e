package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.NotEmpty(t, cfg.Database.Path)
	assert.Equal(t, 10000, cfg.Query.MaxQueryLength)
	assert.Equal(t, 30, cfg.Query.DefaultTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)

	store := cfg.StoreConfig()
	assert.Equal(t, cfg.Database.Path, store.Path)
	assert.Equal(t, cfg.Database.BusyTimeoutMS, store.BusyTimeoutMS)
}
