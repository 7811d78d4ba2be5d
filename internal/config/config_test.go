package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TOGGL_API_TOKEN", "TOGGL_USERNAME", "TOGGL_PASSWORD", "TOGGL_BASE_URL", "TOGGL_REQUEST_COOLDOWN"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOGGL_API_TOKEN", "tok")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.track.toggl.com", cfg.Toggl.BaseURL)
	assert.Equal(t, time.Second, cfg.HTTP.Cooldown)
}

func TestLoadRequiresCredentials(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.Error(t, err)

	// A username alone is not a usable credential pair.
	t.Setenv("TOGGL_USERNAME", "ada")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("TOGGL_PASSWORD", "s3cret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoadCooldown(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOGGL_API_TOKEN", "tok")

	t.Setenv("TOGGL_REQUEST_COOLDOWN", "250ms")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.Cooldown)

	t.Setenv("TOGGL_REQUEST_COOLDOWN", "shortly")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("TOGGL_REQUEST_COOLDOWN", "5m")
	_, err = Load()
	assert.Error(t, err, "cooldowns past a minute are rejected")
}
