// internal/config/validator.go
//
// Rule validation and the all-errors failure type.
//
// Context
// -------
// `internal/config/loader.go` runs `validateSettings` immediately after it
// unmarshals the merged Koanf tree into a `Settings` instance.  Resolution
// is all-or-nothing: decode problems (a non-integer PORT, a malformed
// origin list) and rule violations (ENVIRONMENT outside its enum, a CORS
// entry that is not a URL) are collected into one *ValidationError naming
// every offending variable by its wire name, so an operator fixes a broken
// deployment in one pass instead of replaying startup once per field.
//
// Notes
// -----
//   • RegisterTagNameFunc makes go-playground report `env:"…"` names, which
//     is what the operator actually sets ("ENVIRONMENT", not "Environment").
//   • Messages carry the offending value; none of the Secret fields have
//     rules, so material never leaks through here.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// failure type
//

// FieldError is one offending field, named by its environment variable.
type FieldError struct {
	Field   string // wire name, e.g. "ENVIRONMENT" or "BACKEND_CORS_ORIGINS[1]"
	Message string
}

func (f FieldError) String() string { return f.Field + ": " + f.Message }

// ValidationError aggregates every field failure from one resolve.  It is
// the only error type Load returns for malformed primary input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "settings validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "settings validation failed: " + strings.Join(msgs, "; ")
}

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return val
}

//
// rule validation
//

// validateSettings runs the struct rules and converts failures to the
// aggregate type.  nil means the snapshot is valid.
func validateSettings(s *Settings) *ValidationError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var rules validator.ValidationErrors
	if !errors.As(err, &rules) {
		// InvalidValidationError and friends; cannot happen with a real
		// *Settings, but never swallow it.
		return &ValidationError{Fields: []FieldError{{Field: "settings", Message: err.Error()}}}
	}

	out := &ValidationError{}
	for _, fe := range rules {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

// ruleMessage renders a terse, operator-facing description per rule.
func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of %s, got %q",
			strings.ReplaceAll(fe.Param(), " ", "|"), fe.Value())
	case "min":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("must be a valid URL, got %q", fe.Value())
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}

//
// decode-failure conversion
//

// decodeFieldErrors converts a decode failure into field errors, mapping
// merge-tree paths back to wire names.  One entry per broken field.
func decodeFieldErrors(err error) *ValidationError {
	out := &ValidationError{}
	for _, msg := range flattenDecodeError(err) {
		out.Fields = append(out.Fields, FieldError{Field: wireNameIn(msg), Message: msg})
	}
	return out
}

// flattenDecodeError splits the decoder's failure into per-field messages.
// The decoder joins field failures; the older aggregate rendering instead
// carries one "* …" line per field.  Anything unrecognized stays whole.
func flattenDecodeError(err error) []string {
	if group, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range group.Unwrap() {
			msgs = append(msgs, flattenDecodeError(e)...)
		}
		return msgs
	}

	msg := err.Error()
	if strings.Contains(msg, "error(s) decoding:") {
		var msgs []string
		for _, line := range strings.Split(msg, "\n") {
			if rest, ok := strings.CutPrefix(line, "* "); ok {
				msgs = append(msgs, rest)
			}
		}
		if len(msgs) > 0 {
			return msgs
		}
	}
	return []string{msg}
}

// wireNameIn pulls the first 'single-quoted' token out of a decode message
// (the tree path appears there in every message shape the decoder emits)
// and maps it to its env-var name.
func wireNameIn(msg string) string {
	i := strings.IndexByte(msg, '\'')
	if i < 0 {
		return "settings"
	}
	rest := msg[i+1:]
	j := strings.IndexByte(rest, '\'')
	if j < 0 {
		return "settings"
	}
	path := rest[:j]
	if name, ok := pathToEnv[path]; ok {
		return name
	}
	return path
}
