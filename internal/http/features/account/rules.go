package account

import (
	"github.com/wanderon/auth-service/internal/http/features/auth"
	"github.com/wanderon/auth-service/pkg/validate"
)

func updatePasswordRules() []validate.Rule {
	rules := []validate.Rule{
		{
			Field:    "currentPassword",
			Required: true,
		},
	}

	newPassword := auth.PasswordRule("newPassword")
	base := newPassword.Check
	newPassword.Check = func(value string, fields validate.Fields) string {
		if msg := base(value, fields); msg != "" {
			return msg
		}
		if value == fields["currentPassword"] {
			return "new password must be different from current password"
		}
		return ""
	}
	rules = append(rules, newPassword)

	rules = append(rules, validate.Rule{
		Field:    "confirmPassword",
		Required: true,
		Check: func(value string, fields validate.Fields) string {
			if value != fields["newPassword"] {
				return "password confirmation does not match new password"
			}
			return ""
		},
	})

	return rules
}

func updateProfileRules() []validate.Rule {
	return []validate.Rule{
		auth.UsernameRule(false),
		auth.EmailRule(false),
	}
}

func deleteAccountRules() []validate.Rule {
	return []validate.Rule{
		{
			Field:    "password",
			Required: true,
		},
	}
}
