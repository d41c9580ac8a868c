// internal/config/secret_test.go
//
// Unit-tests for the redacting Secret type and key generation.
//
// Context
// -------
// Credential material must never reach logs or JSON dumps through fmt
// verbs or encoding/json, while Value() keeps the material reachable for
// the code that genuinely needs it.  Generated keys are 256-bit, URL-safe,
// and fresh per call.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecret_RedactsThroughFmt(t *testing.T) {
	s := Secret("hunter2")

	for _, rendered := range []string{
		fmt.Sprint(s),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%+v", struct{ Key Secret }{s}),
	} {
		if strings.Contains(rendered, "hunter2") {
			t.Errorf("material leaked: %q", rendered)
		}
		if !strings.Contains(rendered, redacted) {
			t.Errorf("redaction marker missing: %q", rendered)
		}
	}

	// Empty renders empty so "unset" stays distinguishable from "hidden".
	if got := fmt.Sprint(Secret("")); got != "" {
		t.Errorf("empty secret rendered %q", got)
	}
}

func TestSecret_JSONRoundTrip(t *testing.T) {
	in := struct {
		Key Secret `json:"key"`
	}{Secret("hunter2")}

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "hunter2") {
		t.Errorf("material leaked into JSON: %s", raw)
	}
	if !strings.Contains(string(raw), redacted) {
		t.Errorf("redaction marker missing in JSON: %s", raw)
	}

	// Unmarshal accepts plain strings (dotenv and JSON sources).
	var s Secret
	if err := json.Unmarshal([]byte(`"pinned"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Value() != "pinned" {
		t.Errorf("Value() = %q, want pinned", s.Value())
	}
}

func TestNewSecretKey_FreshAndURLSafe(t *testing.T) {
	a, b := newSecretKey(), newSecretKey()

	if a == b {
		t.Fatal("two generated keys are equal")
	}
	for _, k := range []Secret{a, b} {
		v := k.Value()
		if len(v) != 43 { // 32 bytes, unpadded URL-safe base64
			t.Errorf("key length = %d, want 43", len(v))
		}
		if strings.ContainsAny(v, "+/=") {
			t.Errorf("key %q is not URL-safe", v)
		}
	}
}
