// Package validate implements the declarative per-field validation and
// sanitization pipeline that runs before any handler touches a request
// body. Rules are evaluated in declaration order, every failing
// constraint is collected, and the handler only runs when the error list
// is empty, so the front end can render all problems at once.
package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// FieldError pairs a field name with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full list of validation failures for a request.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation passed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields holds the string fields of a request body. A missing key means
// the field was not present in the request.
type Fields map[string]string

// FieldsFromJSON decodes a JSON object body into Fields. Non-string
// values are dropped and will trip their field's required rule.
func FieldsFromJSON(r io.Reader) (Fields, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	fields := make(Fields, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	return fields, nil
}

// Rule declares the constraints and normalization policy for one field.
// Zero-value members are skipped, so a rule lists only what it needs.
type Rule struct {
	Field    string
	Required bool

	// Normalization, applied before any constraint runs.
	Trim      bool
	Lowercase bool

	MinLen int
	MaxLen int

	Pattern        *regexp.Regexp
	PatternMessage string

	// Check is a custom predicate with access to the other fields
	// (reserved words, cross-field equality). It returns a message on
	// failure and "" on success.
	Check func(value string, fields Fields) string

	// Escape neutralizes markup before storage: control characters are
	// stripped and HTML special characters entity-escaped. Never set
	// for password fields, which must keep their literal bytes.
	Escape bool
}

// Run evaluates every rule against the fields and returns the sanitized
// field set together with all collected failures. Evaluation never
// short-circuits: all rules for all fields run.
func Run(rules []Rule, fields Fields) (Fields, Errors) {
	sanitized := make(Fields, len(fields))
	for k, v := range fields {
		sanitized[k] = v
	}

	var errs Errors
	fail := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	for _, rule := range rules {
		value, present := sanitized[rule.Field]

		if rule.Trim {
			value = strings.TrimSpace(value)
		}
		if rule.Lowercase {
			value = strings.ToLower(value)
		}
		if present {
			sanitized[rule.Field] = value
		}

		if !present || value == "" {
			if rule.Required {
				fail(rule.Field, fmt.Sprintf("%s is required", rule.Field))
			}
			continue
		}

		if rule.MinLen > 0 && len(value) < rule.MinLen {
			fail(rule.Field, fmt.Sprintf("%s must be at least %d characters", rule.Field, rule.MinLen))
		}
		if rule.MaxLen > 0 && len(value) > rule.MaxLen {
			fail(rule.Field, fmt.Sprintf("%s must be at most %d characters", rule.Field, rule.MaxLen))
		}

		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			msg := rule.PatternMessage
			if msg == "" {
				msg = fmt.Sprintf("%s has an invalid format", rule.Field)
			}
			fail(rule.Field, msg)
		}

		if rule.Check != nil {
			if msg := rule.Check(value, sanitized); msg != "" {
				fail(rule.Field, msg)
			}
		}

		if rule.Escape {
			sanitized[rule.Field] = EscapeText(value)
		}
	}

	return sanitized, errs
}
