// Package network resolves the address a request came from.
package network

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the originating client address of r.
//
// The first X-Forwarded-For hop wins, then X-Real-IP, then RemoteAddr with
// its port removed. IPv6 addresses come back without brackets.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
