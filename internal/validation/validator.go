// Package validation provides custom validators for the application
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PasswordPolicyMessage is shown whenever a submitted password fails the
// complexity policy.
const PasswordPolicyMessage = "Password must be at least 8 characters and include an uppercase letter, a lowercase letter, a number, and a special character."

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("password", validatePassword)
		if err != nil {
			panic(err)
		}
	}
}

func validatePassword(fl validator.FieldLevel) bool {
	return PasswordMeetsPolicy(fl.Field().String())
}

// PasswordMeetsPolicy checks the password complexity policy: at least 8
// characters with an uppercase letter, a lowercase letter, a digit, and a
// special character.
func PasswordMeetsPolicy(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// Message converts a binding error into a message safe to show the user.
// Validation errors are surfaced verbatim; anything else collapses to a
// generic invalid-input message.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please fill in all required fields."
	}

	fe := verrs[0]
	field := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return "Please fill in all required fields."
	case "email":
		return "Please enter a valid email address."
	case "password":
		return PasswordPolicyMessage
	case "eqfield":
		return "Passwords do not match."
	case "max":
		return fmt.Sprintf("%s is too long.", field)
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}

func fieldLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
