package auth

import (
	"regexp"

	"github.com/wanderon/auth-service/pkg/domain"
	"github.com/wanderon/auth-service/pkg/validate"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	namePattern     = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// checkReservedUsername rejects usernames on the reserved list regardless
// of availability.
func checkReservedUsername(value string, _ validate.Fields) string {
	if domain.IsReservedUsername(value) {
		return "username is reserved"
	}
	return ""
}

// UsernameRule is the shared username constraint set, also used by the
// profile-update endpoint.
func UsernameRule(required bool) validate.Rule {
	return validate.Rule{
		Field:          "username",
		Required:       required,
		Trim:           true,
		MinLen:         domain.UsernameMinLength,
		MaxLen:         domain.UsernameMaxLength,
		Pattern:        usernamePattern,
		PatternMessage: "username can only contain letters, numbers, and underscores",
		Check:          checkReservedUsername,
		Escape:         true,
	}
}

// EmailRule is the shared email constraint set.
func EmailRule(required bool) validate.Rule {
	return validate.Rule{
		Field:          "email",
		Required:       required,
		Trim:           true,
		Lowercase:      true,
		MaxLen:         domain.EmailMaxLength,
		Pattern:        emailPattern,
		PatternMessage: "please provide a valid email address",
		Escape:         true,
	}
}

func nameRule(field string) validate.Rule {
	return validate.Rule{
		Field:          field,
		Required:       true,
		Trim:           true,
		MinLen:         domain.NameMinLength,
		MaxLen:         domain.NameMaxLength,
		Pattern:        namePattern,
		PatternMessage: field + " can only contain letters and spaces",
		Escape:         true,
	}
}

// PasswordRule validates password shape. Passwords are never escaped:
// markup neutralization would corrupt the literal secret.
func PasswordRule(field string) validate.Rule {
	return validate.Rule{
		Field:    field,
		Required: true,
		MinLen:   domain.PasswordMinLength,
		MaxLen:   domain.PasswordMaxLength,
		Check:    validate.PasswordComplexity,
	}
}

func registerRules() []validate.Rule {
	return []validate.Rule{
		UsernameRule(true),
		nameRule("firstName"),
		nameRule("lastName"),
		EmailRule(true),
		PasswordRule("password"),
		{
			Field:    "confirmPassword",
			Required: true,
			Check: func(value string, fields validate.Fields) string {
				if value != fields["password"] {
					return "password confirmation does not match password"
				}
				return ""
			},
		},
	}
}

func loginRules() []validate.Rule {
	return []validate.Rule{
		{
			Field:    "identifier",
			Required: true,
			Trim:     true,
			MinLen:   3,
			MaxLen:   domain.EmailMaxLength,
		},
		// Shape is deliberately not validated on login, and the secret
		// is never escaped.
		{
			Field:    "password",
			Required: true,
			MaxLen:   128,
		},
	}
}
