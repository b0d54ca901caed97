package ratelimit

import (
	"strings"
)

// unlimited marks endpoints that are never limited.
var unlimited = Rule{}

// MatchRule returns the rule for a request, or nil when the default applies.
// Exact paths win over prefix rules.
func MatchRule(path string, method string, rules []Rule) *Rule {
	if method == "GET" && (path == "/health" || path == "/") {
		return &unlimited
	}

	for i := range rules {
		rule := &rules[i]
		if rule.Path == path && rule.Method == method {
			return rule
		}
	}

	for i := range rules {
		rule := &rules[i]
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}

	return nil
}
