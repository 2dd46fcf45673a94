// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and environment vars.
// - External errors are wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GitHubToken enables the authenticated GraphQL source and raises the
	// event-log rate limit. Empty is not an error: the GraphQL source is
	// simply skipped.
	GitHubToken string `koanf:"github_token"`

	// DefaultUsername is used when a request supplies no username.
	DefaultUsername string `koanf:"default_username"`

	// FetchTimeoutMS bounds each upstream source attempt.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// CacheTTLSeconds sets how long resolved calendars are cached.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// MockCacheTTLSeconds sets the shorter TTL for mock-sourced calendars.
	MockCacheTTLSeconds int `koanf:"mock_cache_ttl_seconds"`

	// ContactRelayURL is the third-party form-relay endpoint. Empty
	// disables POST /api/contact.
	ContactRelayURL string `koanf:"contact_relay_url"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8090",
		DefaultUsername:     "bishnt",
		FetchTimeoutMS:      8000,
		CacheTTLSeconds:     600,
		MockCacheTTLSeconds: 60,
	}
}
