package identity

import (
	"strings"

	"github.com/matheus3301/raveoir/internal/model"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// SignUpRequest is the registration form.
type SignUpRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	// ConfirmPassword is checked only when set.
	ConfirmPassword string
}

func (r *SignUpRequest) validate() error {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return model.Invalid("name", "Please enter your first and last name")
	}
	if r.ConfirmPassword != "" && r.Password != r.ConfirmPassword {
		return model.Invalid("confirm_password", "Passwords do not match")
	}
	if len(r.Password) < MinPasswordLen {
		return model.Invalid("password", "Password must be at least 6 characters")
	}
	if strings.TrimSpace(r.Email) == "" {
		return model.Invalid("email", "Please enter an email")
	}
	return nil
}
