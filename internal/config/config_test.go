package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "ws://localhost:8080/ws/chat", cfg.WebSocketURL)
	assert.Equal(t, 30*time.Second, cfg.KeepAliveInterval)
	assert.Equal(t, 10*time.Second, cfg.DialTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.DebugServerEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STOCKCHAT_WS_URL", "wss://chat.example.com/ws")
	t.Setenv("STOCKCHAT_KEEPALIVE_INTERVAL", "15s")
	t.Setenv("STOCKCHAT_DEBUG_SERVER", "false")
	t.Setenv("STOCKCHAT_DEBUG_RATE_LIMIT", "120")

	cfg := Load()

	assert.Equal(t, "wss://chat.example.com/ws", cfg.WebSocketURL)
	assert.Equal(t, 15*time.Second, cfg.KeepAliveInterval)
	assert.False(t, cfg.DebugServerEnabled)
	assert.Equal(t, 120, cfg.DebugRateLimit)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("STOCKCHAT_KEEPALIVE_INTERVAL", "soon")
	t.Setenv("STOCKCHAT_DEBUG_RATE_LIMIT", "lots")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.KeepAliveInterval)
	assert.Equal(t, 60, cfg.DebugRateLimit)
}
