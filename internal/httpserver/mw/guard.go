package mw

import (
	"net"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/harbor/internal/logger"
	"github.com/MrSnakeDoc/harbor/internal/utils"
)

// AllowNetworks admits clients whose address falls in one of the allowed
// IPs or CIDRs. An empty list admits everyone.
// With trustProxy the client address comes from X-Forwarded-For / X-Real-IP.
func AllowNetworks(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("network guard disabled, no allowed networks")
		return passthrough
	}
	log.Debug("network guard enabled",
		logger.Int("rules", len(allowed)),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				deny(w, r, log, "client network not allowed", logger.String("client_ip", ip))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RestrictHosts admits requests whose Host header, port excluded, matches
// one of the patterns. "*.example.net" matches any subdomain but not the
// apex. An empty list admits everything.
func RestrictHosts(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		log.Debug("host guard disabled, no allowed hosts")
		return passthrough
	}
	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		patterns = append(patterns, strings.ToLower(strings.TrimSpace(h)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := requestHost(r.Host)
			for _, pattern := range patterns {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, r, log, "host not allowed", logger.String("host", r.Host))
		})
	}
}

// ControlPlane chains the network and host guards every state-changing or
// bookmark-revealing route sits behind.
func ControlPlane(allowed []string, trustProxy bool, allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	networks := AllowNetworks(allowed, trustProxy, log)
	hosts := RestrictHosts(allowedHosts, log)
	return func(next http.Handler) http.Handler {
		return networks(hosts(next))
	}
}

func passthrough(next http.Handler) http.Handler { return next }

func deny(w http.ResponseWriter, r *http.Request, log logger.Logger, reason string, field logger.Field) {
	log.Warn("request rejected",
		logger.String("reason", reason),
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		field)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden"}` + "\n"))
}

func requestHost(hostport string) string {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}

func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix) && len(host) > len(suffix)
	}
	return false
}
