package httputil

import (
	"net/http"
	"strconv"
	"strings"
)

// GetClientIP resolves the originating client address for a request that
// may have crossed one or more proxies. X-Forwarded-For is consulted first
// (leftmost entry is the client), then X-Real-IP, then the connection's
// RemoteAddr.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// ParseIntParam converts a query parameter to an int, falling back to
// fallback when the value is empty or not an integer.
func ParseIntParam(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
