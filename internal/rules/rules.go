// internal/rules/rules.go
//
// Declarative per-field validation engine.
//
// Context
// -------
// Handlers declare constraints as a pipe-delimited rule string per field,
// e.g. "required|string|max:50".  The grammar is rule[:param]; supported
// rules are required, string, integer, max:N, min:N, email, and in:a,b,c.
// An unknown rule name is itself a validation failure naming the rule, so
// typos surface instead of silently passing.
//
// Validation never short-circuits: every rule of every field runs and the
// failures accumulate, so one response round-trip can show the user the
// whole picture.
//
// Notes
// -----
//   - Email syntax is checked with net/mail, the same parser the form
//     layer uses elsewhere.
//   - min/max measure string length and are skipped for non-strings,
//     matching the behavior handlers already depend on.
package rules

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
)

// ValidationError carries the accumulated field → messages mapping.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for f, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validator checks one data map against a rule set.
type Validator struct {
	data   map[string]any
	rules  map[string]string
	errors map[string][]string
}

// New builds a validator for data against rules.
func New(data map[string]any, ruleSet map[string]string) *Validator {
	return &Validator{
		data:   data,
		rules:  ruleSet,
		errors: make(map[string][]string),
	}
}

// Validate runs every rule and returns a *ValidationError carrying the full
// field → messages mapping when anything failed.
func (v *Validator) Validate() error {
	for field, ruleStr := range v.rules {
		for _, rule := range strings.Split(ruleStr, "|") {
			v.applyRule(field, rule)
		}
	}
	if len(v.errors) > 0 {
		return &ValidationError{Fields: v.errors}
	}
	return nil
}

// Errors exposes the accumulated mapping for programmatic use.  Empty until
// Validate has run.
func (v *Validator) Errors() map[string][]string {
	return v.errors
}

/*──────────────────────────── rule dispatch ───────────────────────────────*/

func (v *Validator) applyRule(field, rule string) {
	name, param, _ := strings.Cut(rule, ":")
	value, present := v.data[field]

	switch name {
	case "required":
		if !present || isEmpty(value) {
			v.addError(field, "The field is required.")
		}

	case "string":
		if _, ok := value.(string); !ok {
			v.addError(field, "The field must be a string.")
		}

	case "integer":
		if !isInteger(value) {
			v.addError(field, "The field must be an integer.")
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if s, ok := value.(string); ok && len(s) > n {
			v.addError(field, fmt.Sprintf("The field must not exceed %d characters.", n))
		}

	case "min":
		n, _ := strconv.Atoi(param)
		if s, ok := value.(string); ok && len(s) < n {
			v.addError(field, fmt.Sprintf("The field must be at least %d characters.", n))
		}

	case "email":
		s, ok := value.(string)
		if !ok {
			v.addError(field, "The field must be a valid email address.")
			return
		}
		if _, err := mail.ParseAddress(s); err != nil {
			v.addError(field, "The field must be a valid email address.")
		}

	case "in":
		allowed := strings.Split(param, ",")
		got := fmt.Sprint(value)
		for _, a := range allowed {
			if got == a {
				return
			}
		}
		v.addError(field, "The field must be one of: "+strings.Join(allowed, ", ")+".")

	default:
		v.addError(field, fmt.Sprintf("The rule '%s' is not supported.", name))
	}
}

func (v *Validator) addError(field, message string) {
	v.errors[field] = append(v.errors[field], message)
}

/*──────────────────────────── predicates ──────────────────────────────────*/

// isEmpty mirrors the loose emptiness the handlers expect: nil, "", false,
// and numeric zero all count as absent.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	default:
		return false
	}
}

// isInteger accepts integer types, whole floats, and base-10 strings.
func isInteger(v any) bool {
	switch t := v.(type) {
	case int, int64:
		return true
	case float64:
		return t == float64(int64(t))
	case string:
		_, err := strconv.ParseInt(t, 10, 64)
		return err == nil
	default:
		return false
	}
}
