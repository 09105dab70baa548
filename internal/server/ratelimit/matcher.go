package ratelimit

import "strings"

// unlimited is returned for endpoints that are never limited.
var unlimited = &EndpointConfig{}

// MatchEndpoint returns the configuration for a request, or nil when the
// default limit applies. An exact path match wins over a prefix match; a
// config path ending in "/" matches every path below it. An empty Method
// matches any method.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" {
		return unlimited
	}

	for i := range configs {
		c := &configs[i]
		if c.Path == path && methodMatches(c.Method, method) {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) && methodMatches(c.Method, method) {
			return c
		}
	}
	return nil
}

func methodMatches(configured, method string) bool {
	return configured == "" || configured == method
}
