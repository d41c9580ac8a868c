// internal/config/secret.go
//
// Redacting string type and default key generation.
//
// Context
// -------
// `Secret` keeps credential material out of logs and JSON dumps.  fmt verbs
// and encoding/json both render "[redacted]"; code that genuinely needs the
// material calls Value().  Zap's reflection path goes through MarshalJSON,
// so structured boot logs are covered as well.
//
// When SECRET_KEY is not supplied, the resolver generates a fresh 256-bit
// key per resolve.  That is a development convenience only; multi-replica
// deployments must pin SECRET_KEY or signed tokens break across processes.

package config

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"reflect"
)

// Secret is a string whose value is redacted by fmt and encoding/json.
type Secret string

const redacted = "[redacted]"

// Value returns the underlying material.
func (s Secret) Value() string { return string(s) }

// String implements fmt.Stringer.  Empty secrets render empty so log
// readers can tell "unset" from "hidden".
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// MarshalJSON always emits the redacted form, never the material.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a plain JSON string.
func (s *Secret) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = Secret(raw)
	return nil
}

// secretDecodeHook converts plain strings in the merged tree to Secret
// while the snapshot is unmarshalled.
func secretDecodeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(Secret("")) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return Secret(v), nil
	case []byte:
		return Secret(v), nil
	default:
		return data, nil
	}
}

// newSecretKey returns 32 bytes of crypto/rand entropy as unpadded URL-safe
// base64 (43 characters).  Entropy failure at boot is unrecoverable, so it
// panics rather than returning an error nobody can act on.
func newSecretKey() Secret {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("config: secret key entropy unavailable: " + err.Error())
	}
	return Secret(base64.RawURLEncoding.EncodeToString(buf))
}
