package handler

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// It registers the custom tags used by the request schemas:
//   - subdomain: DNS-safe label (lowercase alnum and hyphens, no edge hyphens)
//   - strongpassword: upper + lower + digit + symbol, at least 8 chars
//
// Password strength lives here, at schema validation, and nowhere near the
// hashing code: the hasher accepts any string.
func NewValidator() *echoValidator {
	v := validator.New()
	_ = v.RegisterValidation("subdomain", validSubdomain)
	_ = v.RegisterValidation("strongpassword", strongPassword)
	_ = v.RegisterValidation("alphanum_underscore", alphanumUnderscore)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func validSubdomain(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 3 || len(s) > 63 {
		return false
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if !(r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("!@#$%^&*()_+-=[]{}|;:,.<>?", r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

func alphanumUnderscore(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "subdomain":
		return field + " must be a DNS-safe label (lowercase letters, numbers, hyphens)"
	case "strongpassword":
		return field + " must be at least 8 characters with upper, lower, digit, and symbol"
	case "alphanum_underscore":
		return field + " may only contain letters, numbers, and underscores"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
