package app

import (
	"net/url"
	"strings"
)

// originAllowlist matches browser Origin values against the configured
// patterns. Patterns are compared against the origin's "host[:port]" part,
// case-insensitively. Three forms are accepted: an exact host
// ("app.example.com"), a wildcard subdomain ("*.example.com", which also
// matches the apex), and a wildcard port ("localhost:*"). An empty list
// rejects everything.
type originAllowlist []string

func (l originAllowlist) allows(origin string) bool {
	host := strings.ToLower(originHost(origin))
	if host == "" {
		return false
	}
	for _, pattern := range l {
		if matchHostPattern(strings.ToLower(strings.TrimSpace(pattern)), host) {
			return true
		}
	}
	return false
}

// originHost extracts "host[:port]" from an Origin header value. Bare hosts
// without a scheme pass through unchanged.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

func matchHostPattern(pattern, host string) bool {
	switch {
	case pattern == "":
		return false
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return host == pattern[2:] || strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
