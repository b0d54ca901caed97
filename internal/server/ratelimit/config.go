package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// Rule limits one endpoint. Paths ending in "/" match by prefix.
type Rule struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	// Burst defaults to Limit when zero.
	Burst int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	Rules           []Rule
}

// AnalyzeRules returns the stricter rules applied to the analysis endpoints.
func AnalyzeRules(limit int, window time.Duration) []Rule {
	burst := max(1, limit/10)
	return []Rule{
		{Path: "/analyze", Method: http.MethodPost, Limit: limit, Window: window, Burst: burst},
		{Path: "/analyze/", Method: http.MethodPost, Limit: limit, Window: window, Burst: burst},
	}
}

// ParseIPList turns addresses into a lookup set, skipping blanks.
func ParseIPList(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
