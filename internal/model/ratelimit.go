package model

// RateLimitUsage holds one set of rate-limit counters as reported by the
// backend. All counters are non-negative.
type RateLimitUsage struct {
	Burst   int `json:"burst"`
	PerChat int `json:"per_chat"`
	Hourly  int `json:"hourly"`
	Daily   int `json:"daily"`
}

// RateLimitSnapshot pairs current usage with the configured limits. A
// snapshot is replaced wholesale on every rate_limit_info frame; fields are
// never merged across snapshots.
type RateLimitSnapshot struct {
	Current RateLimitUsage `json:"current_usage"`
	Limits  RateLimitUsage `json:"limits"`
}
