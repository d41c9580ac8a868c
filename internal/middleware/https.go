// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/wayposthq/waypost/internal/config"
)

// ForceHTTPS returns middleware that 308-redirects plain-HTTP requests to
// the HTTPS version of the same URL on the staging and production tiers.
// Local and development traffic, “localhost” hosts, and requests that
// arrived on TLS (directly or via a terminating proxy that sets
// X-Forwarded-Proto) pass through unchanged.
func ForceHTTPS(environment string) func(http.Handler) http.Handler {
	enforce := environment == config.EnvStaging || environment == config.EnvProduction

	return func(next http.Handler) http.Handler {
		if !enforce {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Already HTTPS or dev host → continue.
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" ||
				stripPort(r.Host) == "localhost" {
				next.ServeHTTP(w, r)
				return
			}

			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
		})
	}
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
