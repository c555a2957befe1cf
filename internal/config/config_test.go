package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, 7070, c.Port)
	assert.Equal(t, 5*time.Second, c.PollInterval)
	assert.Equal(t, time.Second, c.PrintDebounce)
	assert.Equal(t, 20, c.PageLimit)
	assert.NotEmpty(t, c.APIBaseURL)
	assert.NotEmpty(t, c.APIKey)
	assert.NotEmpty(t, c.TenantID)
}

func TestFromEnvOverlaysDefaults(t *testing.T) {
	t.Setenv("PEDIDOS_PORT", "9090")
	t.Setenv("PEDIDOS_API_BASE_URL", "http://localhost:3000")
	t.Setenv("PEDIDOS_POLL_INTERVAL", "10s")
	t.Setenv("PEDIDOS_PRINT_DEBOUNCE", "0s")
	t.Setenv("PEDIDOS_LOG_JSON", "false")

	c := fromEnv(Default())
	assert.Equal(t, 9090, c.Port)
	assert.Equal(t, "http://localhost:3000", c.APIBaseURL)
	assert.Equal(t, 10*time.Second, c.PollInterval)
	assert.Equal(t, time.Duration(0), c.PrintDebounce)
	assert.False(t, c.LogJSON)
}

func TestFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("PEDIDOS_PORT", "not-a-number")
	t.Setenv("PEDIDOS_POLL_INTERVAL", "-3s")
	t.Setenv("PEDIDOS_PAGE_LIMIT", "0")

	c := fromEnv(Default())
	assert.Equal(t, 7070, c.Port)
	assert.Equal(t, 5*time.Second, c.PollInterval)
	assert.Equal(t, 20, c.PageLimit)
}
