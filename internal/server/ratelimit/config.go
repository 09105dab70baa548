package ratelimit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path, or a prefix when it ends in "/"
	Method string        // HTTP method; empty matches any
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// envBindings maps viper keys to the RATE_LIMIT_* environment variables.
var envBindings = map[string]string{
	"rate-limit.enabled":          "RATE_LIMIT_ENABLED",
	"rate-limit.default-limit":    "RATE_LIMIT_DEFAULT_LIMIT",
	"rate-limit.default-window":   "RATE_LIMIT_DEFAULT_WINDOW",
	"rate-limit.cleanup-interval": "RATE_LIMIT_CLEANUP_INTERVAL",
	"rate-limit.whitelist":        "RATE_LIMIT_WHITELIST",
	"rate-limit.blacklist":        "RATE_LIMIT_BLACKLIST",
}

// LoadConfig reads the rate-limit section of v, falling back to the
// RATE_LIMIT_* environment variables and then to the defaults. A nil v reads
// only the environment.
func LoadConfig(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	v.SetDefault("rate-limit.enabled", true)
	v.SetDefault("rate-limit.default-limit", 1000)
	v.SetDefault("rate-limit.default-window", time.Minute)
	v.SetDefault("rate-limit.cleanup-interval", 5*time.Minute)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if !v.GetBool("rate-limit.enabled") {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    v.GetInt("rate-limit.default-limit"),
		DefaultWindow:   v.GetDuration("rate-limit.default-window"),
		CleanupInterval: v.GetDuration("rate-limit.cleanup-interval"),
		Whitelist:       parseIPList(v.GetString("rate-limit.whitelist")),
		Blacklist:       parseIPList(v.GetString("rate-limit.blacklist")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Document uploads
// run the whole ingestion pipeline and are the most expensive requests.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Expensive: ingestion and embedding
		{Path: "/v1/documents", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/v1/match", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Credentials
		{Path: "/v1/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/v1/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/v1/users/me/password", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 3},

		// Writes
		{Path: "/v1/candidates", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/v1/candidates/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/v1/candidates/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/v1/documents/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/v1/documents/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/v1/companies", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Reads use the default limit; /health is never limited.
	}
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
