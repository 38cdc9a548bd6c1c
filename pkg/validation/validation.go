package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	usernameRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	authorNameRegex = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
)

const passwordSymbols = "@$!%*?&"

// Register installs the custom rules and json-tag field naming on a
// validator instance. Call once against gin's binding engine at startup.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("authorname", func(fl validator.FieldLevel) bool {
		return authorNameRegex.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}

	// notblank rejects strings that are empty once trimmed, which plain
	// min=1 lets through.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		return err
	}

	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
}

// IsStrongPassword reports whether a password has at least 8 characters with
// one uppercase letter, one lowercase letter, one digit and one symbol from
// the fixed set, using no characters outside those classes.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return false
		}
	}

	return hasLower && hasUpper && hasDigit && hasSymbol
}

// FormatValidationError renders every violated field as "field: message"
// pairs joined with ", \n ".
func FormatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := normalizeFieldName(fieldError.Field())
		messages = append(messages, fmt.Sprintf("%s: %s", field, fieldErrorMessage(field, fieldError)))
	}

	return strings.Join(messages, ", \n ")
}

// normalizeFieldName strips the slice index from dive errors so
// "genre[2]" resolves against the same catalog entry as "genre".
func normalizeFieldName(field string) string {
	if i := strings.IndexByte(field, '['); i > 0 {
		return field[:i]
	}
	return field
}

func fieldErrorMessage(field string, fe validator.FieldError) string {
	switch field {
	case "name":
		return "Name is required"
	case "email":
		return "Invalid email"
	case "password":
		if fe.Tag() == "strongpassword" {
			return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
		}
		return "Password must be at least 8 characters"
	case "userName":
		switch fe.Tag() {
		case "max":
			return "Username cannot exceed 30 characters"
		case "username":
			return "Username can only contain letters, numbers, underscores and hyphens"
		default:
			return "Username must be at least 3 characters"
		}
	case "title":
		if fe.Tag() == "max" {
			return "Title cannot exceed 200 characters"
		}
		return "Title is required"
	case "author":
		switch fe.Tag() {
		case "max":
			return "Author name cannot exceed 100 characters"
		case "authorname":
			return "Author name can only contain letters, spaces, hyphens, apostrophes, and periods"
		default:
			return "Author name must be at least 2 characters"
		}
	case "genre":
		switch fe.Tag() {
		case "max":
			if fe.Kind() == reflect.Slice {
				return "Maximum 5 genres allowed"
			}
			return "Each genre cannot exceed 50 characters"
		default:
			return "At least one genre is required"
		}
	case "description":
		if fe.Tag() == "max" {
			return "Description cannot exceed 2000 characters"
		}
		return "Description must be at least 10 characters"
	case "rating":
		switch fe.Tag() {
		case "max":
			return "Rating cannot exceed 5"
		default:
			return "Rating must be at least 1"
		}
	case "comment":
		if fe.Tag() == "max" {
			return "Comment cannot exceed 1000 characters"
		}
		return "Comment must be at least 5 characters"
	}

	return genericMessage(fe)
}

func genericMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("cannot exceed %s", fe.Param())
	default:
		return "is invalid"
	}
}
