package middlewares

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const clientIPKey contextKey = "clientIP"

// clientIPHeaders are consulted in order before falling back to RemoteAddr.
var clientIPHeaders = []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

// ClientIPMiddleware resolves the visitor's address from proxy headers, rewrites RemoteAddr to "IP:port"
// and keeps the bare IP on the request context for logging.
func ClientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)
		if clientIP == "" {
			next.ServeHTTP(w, r)
			return
		}

		port := "0"
		if _, p, err := net.SplitHostPort(r.RemoteAddr); err == nil && p != "" {
			port = p
		}
		r.RemoteAddr = net.JoinHostPort(clientIP, port)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIPKey, clientIP)))
	})
}

// ClientIP returns the address resolved by ClientIPMiddleware, or "" when it did not run.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey).(string); ok {
		return ip
	}
	return ""
}

func extractClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		// X-Forwarded-For lists the original client first.
		first, _, _ := strings.Cut(value, ",")
		if parsed := net.ParseIP(strings.TrimSpace(first)); parsed != nil {
			return parsed.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if parsed := net.ParseIP(host); parsed != nil {
		return parsed.String()
	}

	return ""
}
