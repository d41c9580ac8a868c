// internal/config/model.go
//
// Typed settings model for Waypost.
//
// Context
// -------
// `Settings` is the immutable snapshot that `internal/config/loader.go`
// resolves once at process start from three overlay layers:
//
//   • built-in defaults                – lowest precedence,
//   • optional `.env` in the cwd       – dotenv values, skipped in test mode,
//   • process environment variables    – highest precedence.
//
// The wire contract is the set of `env:"…"` tags: exact, case-sensitive
// variable names.  Derived values (the effective CORS allow-list and the
// Postgres DSN) are methods, never stored fields, so they cannot drift from
// the primaries they are computed from.
//
// Validation happens immediately after unmarshal; the process fails fast,
// with every offending variable named, if any field is out of domain.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"` for the merge tree and `env:"…"` for the
//     wire names; validation tags are plain go-playground rules.
//   • Treat a resolved *Settings as read-only.  Nothing in this package
//     mutates one after Load returns, and there is no setter surface.
//   • Oxford commas, two spaces after periods.

package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

//
// Environment tiers
//

// Recognized ENVIRONMENT values.  Anything else is a hard validation
// failure, never coerced.
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

//
// Settings aggregate
//

// Settings is the resolved configuration snapshot.  One instance per
// process, constructed by Load and passed down explicitly; safe for any
// number of concurrent readers.
type Settings struct {
	APIPrefix   string `koanf:"api_prefix"   env:"API_V1_STR"`
	ProjectName string `koanf:"project_name" env:"PROJECT_NAME"`
	AppVersion  string `koanf:"app_version"  env:"APP_VERSION"`

	Port        int    `koanf:"port"        env:"PORT"        validate:"min=1,max=65535"`
	SecretKey   Secret `koanf:"secret_key"  env:"SECRET_KEY"`
	Environment string `koanf:"environment" env:"ENVIRONMENT" validate:"oneof=local development staging production"`

	FrontendHost string   `koanf:"frontend_host" env:"FRONTEND_HOST"`
	CORSOrigins  []string `koanf:"cors_origins"  env:"BACKEND_CORS_ORIGINS" validate:"dive,url"`

	PostgresServer   string `koanf:"postgres_server"   env:"POSTGRES_SERVER"`
	PostgresPort     int    `koanf:"postgres_port"     env:"POSTGRES_PORT" validate:"min=1,max=65535"`
	PostgresUser     string `koanf:"postgres_user"     env:"POSTGRES_USER"`
	PostgresPassword Secret `koanf:"postgres_password" env:"POSTGRES_PASSWORD"`
	PostgresDB       string `koanf:"postgres_db"       env:"POSTGRES_DB"`
}

// defaultSettings builds the lowest-precedence layer.  The secret key and
// the manifest version are computed fresh on every call, so two resolves in
// the same process never share a generated secret.  root is where manifest
// discovery starts climbing.
func defaultSettings(root string) Settings {
	return Settings{
		APIPrefix:   "/api/v1",
		ProjectName: "Waypost",
		AppVersion:  projectVersion(root),
		Port:        8000,
		SecretKey:   newSecretKey(),
		Environment: EnvLocal,

		FrontendHost: "http://localhost:8080",
		CORSOrigins:  []string{},

		PostgresServer:   "localhost",
		PostgresPort:     5432,
		PostgresUser:     "app",
		PostgresPassword: "changethis",
		PostgresDB:       "waypost",
	}
}

//
// Computed values
//

// AllCORSOrigins returns the effective allow-list for the CORS middleware:
// every configured origin with trailing slashes stripped, in input order,
// then FrontendHost last, normalized the same way.  No dedup is performed.
// The slice is built fresh per call; callers may keep or mutate it.
func (s *Settings) AllCORSOrigins() []string {
	out := make([]string, 0, len(s.CORSOrigins)+1)
	for _, origin := range s.CORSOrigins {
		out = append(out, strings.TrimRight(origin, "/"))
	}
	return append(out, strings.TrimRight(s.FrontendHost, "/"))
}

// DatabaseURI assembles the Postgres DSN from the POSTGRES_* primaries,
// recomputed on every call.  User and password are URI-escaped, so any byte
// is safe in either.  The scheme token is fixed; opening a pool from the
// DSN is the consumer's concern, not ours.
func (s *Settings) DatabaseURI() string {
	u := url.URL{
		Scheme: "postgresql+psycopg",
		User:   url.UserPassword(s.PostgresUser, s.PostgresPassword.Value()),
		Host:   net.JoinHostPort(s.PostgresServer, strconv.Itoa(s.PostgresPort)),
		Path:   "/" + s.PostgresDB,
	}
	return u.String()
}
