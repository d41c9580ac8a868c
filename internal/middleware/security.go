// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years + preload)
//   • Content-Security-Policy   –  sane default self-only policy
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • HSTS is sent only for the staging and production tiers.  Local and
//   development traffic is plain HTTP, and a cached HSTS pin against
//   localhost outlives the process that set it.
// • Headers are set *before* next.ServeHTTP so they reach the wire even
//   when the handler writes immediately.  A value set by an outer layer is
//   never overwritten, and handlers may still override with Header().Set.
// • If Waypost is running behind a TLS-terminating proxy, HSTS is still
//   useful because browsers see the service’s domain as HTTPS.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"

	"github.com/wayposthq/waypost/internal/config"
)

// Security returns middleware that sets security headers for every
// response, with HSTS gated on the environment tier.
func Security(environment string) func(http.Handler) http.Handler {
	const (
		hsts = "max-age=63072000; includeSubDomains; preload"
		csp  = "default-src 'self'; img-src 'self' data:; object-src 'none'; " +
			"base-uri 'self'; frame-ancestors 'none'"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)

	sendHSTS := environment == config.EnvStaging || environment == config.EnvProduction

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			add := w.Header().Add // shorthand

			if sendHSTS && w.Header().Get("Strict-Transport-Security") == "" {
				add("Strict-Transport-Security", hsts)
			}
			if w.Header().Get("Content-Security-Policy") == "" {
				add("Content-Security-Policy", csp)
			}
			if w.Header().Get("X-Frame-Options") == "" {
				add("X-Frame-Options", xfo)
			}
			if w.Header().Get("X-Content-Type-Options") == "" {
				add("X-Content-Type-Options", nosn)
			}
			if w.Header().Get("Referrer-Policy") == "" {
				add("Referrer-Policy", refer)
			}
			if w.Header().Get("Permissions-Policy") == "" {
				add("Permissions-Policy", perm)
			}

			next.ServeHTTP(w, r)
		})
	}
}
