// internal/middleware/cors.go
//
// CORS middleware built from the resolved allow-list.
//
// The origins argument is Settings.AllCORSOrigins(): every configured
// origin plus the frontend host, trailing slashes already stripped.  The
// handler echoes the matching origin on preflight and actual requests, and
// allows credentials, so browser sessions against the API work from any
// origin the deployment listed.
//
// Notes
// -----
// • go-chi/cors matches origins case-insensitively and honours a literal
//   "*" entry, so the allow-list needs no further normalization here.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware enforcing the given origin allow-list.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // seconds a preflight result may be cached
	})
}
