// internal/config/cors_test.go
//
// Unit-tests for BACKEND_CORS_ORIGINS shape parsing.
//
// Context
// -------
// parseCORSOrigins accepts the two wire shapes (comma-separated scalar,
// serialized JSON list) plus already-structured lists, and rejects
// everything else with the offending value in the message.  Element-level
// URL checks are validation's job, not the parser's, so "not a url" makes
// it through here untouched.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package config

import (
	"strings"
	"testing"
)

func TestParseCORSOrigins_Shapes(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want []string
	}{
		{"nil is empty", nil, []string{}},
		{"empty string is empty", "", []string{}},
		{"commas only is empty", " , ,", []string{}},
		{
			"comma-separated trims and drops empties",
			"http://a.com, http://b.com ,,",
			[]string{"http://a.com", "http://b.com"},
		},
		{
			"single origin",
			"https://app.example.com",
			[]string{"https://app.example.com"},
		},
		{
			"serialized JSON list",
			`["http://a.com","http://b.com"]`,
			[]string{"http://a.com", "http://b.com"},
		},
		{
			"string slice passes through",
			[]string{"http://a.com"},
			[]string{"http://a.com"},
		},
		{
			"any slice of strings converts",
			[]any{"http://a.com", "http://b.com"},
			[]string{"http://a.com", "http://b.com"},
		},
	}

	for _, c := range cases {
		got, err := parseCORSOrigins(c.raw)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if len(got) != len(c.want) {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%s: [%d] = %q, want %q", c.name, i, got[i], c.want[i])
			}
		}
	}
}

func TestParseCORSOrigins_RejectsBadShapes(t *testing.T) {
	cases := []struct {
		name    string
		raw     any
		inError string // offending value must appear in the message
	}{
		{"truncated JSON list", `["http://a.com"`, `["http://a.com"`},
		{"JSON list of non-strings", `[1, 2]`, `[1, 2]`},
		{"list with non-string element", []any{"http://a.com", 7}, "7"},
		{"unsupported scalar", 42, "42"},
	}

	for _, c := range cases {
		_, err := parseCORSOrigins(c.raw)
		if err == nil {
			t.Errorf("%s: parse accepted %v", c.name, c.raw)
			continue
		}
		if !strings.Contains(err.Error(), c.inError) {
			t.Errorf("%s: error %q does not carry the offending value", c.name, err)
		}
	}
}
