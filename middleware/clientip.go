package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the originating client address for a request. Proxy
// headers win over the socket address: the first entry of X-Forwarded-For,
// then X-Real-IP, then RemoteAddr with the port stripped.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
