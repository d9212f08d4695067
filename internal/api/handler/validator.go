package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/stitchboard/tailor-admin/internal/core/domain"
)

// contactEmailPattern is the address shape accepted for accounts and clients.
var contactEmailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const passwordSpecials = "@$!%*?&"

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("contactemail", validateContactEmail)
	_ = v.RegisterValidation("optionalemail", validateOptionalEmail)
	_ = v.RegisterValidation("strongpassword", validateStrongPassword)
	_ = v.RegisterValidation("displayname", validateDisplayName)
	_ = v.RegisterValidation("notblank", validateNotBlank)
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

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func validateContactEmail(fl validator.FieldLevel) bool {
	return contactEmailPattern.MatchString(fl.Field().String())
}

// validateOptionalEmail accepts "", which clears the stored address.
func validateOptionalEmail(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return v == "" || contactEmailPattern.MatchString(v)
}

// validateDisplayName bounds the length in characters after trimming, which
// is what gets stored.
func validateDisplayName(fl validator.FieldLevel) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
	return n >= domain.NameMinLen && n <= domain.NameMaxLen
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateStrongPassword requires at least one lowercase letter, one uppercase
// letter, one digit and one of passwordSpecials, with no other characters.
func validateStrongPassword(fl validator.FieldLevel) bool {
	return isStrongPassword(fl.Field().String())
}

func isStrongPassword(s string) bool {
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email", "contactemail", "optionalemail":
		return field + " must be a valid email"
	case "displayname":
		return fmt.Sprintf("%s must be between %d and %d characters long", field, domain.NameMinLen, domain.NameMaxLen)
	case "notblank":
		return field + " must not be blank"
	case "strongpassword":
		return field + " must contain at least one uppercase letter, one lowercase letter, one number and one of " + passwordSpecials
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
