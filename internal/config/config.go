// Package config provides environment configuration for the chat client.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the client.
type Config struct {
	// Backend endpoints
	APIBaseURL   string
	WebSocketURL string

	// Credential; when empty the CLI logs in via the REST API instead.
	AccessToken string

	// Websocket behaviour
	DialTimeout       time.Duration
	KeepAliveInterval time.Duration

	// Debug server (health + metrics)
	DebugAddr          string
	DebugRateLimit     int
	DebugRateWindow    time.Duration
	DebugServerEnabled bool

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		APIBaseURL:   getEnv("STOCKCHAT_API_URL", "http://localhost:8080/api/v1"),
		WebSocketURL: getEnv("STOCKCHAT_WS_URL", "ws://localhost:8080/ws/chat"),

		AccessToken: getEnv("STOCKCHAT_TOKEN", ""),

		DialTimeout:       getDurationEnv("STOCKCHAT_DIAL_TIMEOUT", 10*time.Second),
		KeepAliveInterval: getDurationEnv("STOCKCHAT_KEEPALIVE_INTERVAL", 30*time.Second),

		DebugAddr:          getEnv("STOCKCHAT_DEBUG_ADDR", "127.0.0.1:9464"),
		DebugRateLimit:     getIntEnv("STOCKCHAT_DEBUG_RATE_LIMIT", 60),
		DebugRateWindow:    getDurationEnv("STOCKCHAT_DEBUG_RATE_WINDOW", time.Minute),
		DebugServerEnabled: getBoolEnv("STOCKCHAT_DEBUG_SERVER", true),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
