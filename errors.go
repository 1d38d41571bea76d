package identity

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeMissingRequiredField   = "missing_required_field"
	TextCodeDuplicateEmail         = "duplicate_email"
	TextCodeDuplicateActivationKey = "duplicate_activation_key"
	TextCodeNotificationFailed     = "notification_delivery_failed"
)

// ErrMissingName is returned when a creation path has no name.
var ErrMissingName = errors.New("users must have a name", errors.CategoryValidation).
	WithTextCode(TextCodeMissingRequiredField).
	WithCode(errors.CodeBadRequest).
	WithMetadata(map[string]any{"field": "name"})

// ErrMissingEmail is returned when a creation path has no email address.
var ErrMissingEmail = errors.New("users must have an email address", errors.CategoryValidation).
	WithTextCode(TextCodeMissingRequiredField).
	WithCode(errors.CodeBadRequest).
	WithMetadata(map[string]any{"field": "email"})

// ErrDuplicateEmail is returned when a second insert carries an email that
// is already taken, case-insensitively.
var ErrDuplicateEmail = errors.New("this email is already taken", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrDuplicateActivationKey is returned when key derivation collided twice
// in a row, which in practice means something other than chance is wrong.
var ErrDuplicateActivationKey = errors.New("activation key already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateActivationKey).
	WithCode(errors.CodeConflict)

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned when a cleartext password does
// not match its stored hash.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsMissingRequiredField will check for name/email precondition failures.
func IsMissingRequiredField(err error) bool {
	return hasTextCode(err, TextCodeMissingRequiredField)
}

// IsDuplicateEmail will check both our own sentinel and raw driver errors
// for an email uniqueness violation.
func IsDuplicateEmail(err error) bool {
	if hasTextCode(err, TextCodeDuplicateEmail) {
		return true
	}
	text := chainText(err)
	return isUniqueViolationText(text) && strings.Contains(text, "email")
}

// IsDuplicateActivationKey will check for an activation key collision.
func IsDuplicateActivationKey(err error) bool {
	if hasTextCode(err, TextCodeDuplicateActivationKey) {
		return true
	}
	text := chainText(err)
	return isUniqueViolationText(text) && strings.Contains(text, "activation_key")
}

func hasTextCode(err error, code string) bool {
	for depth := 0; err != nil && depth < maxChainDepth; depth++ {
		if rich, ok := err.(*errors.Error); ok {
			if rich.TextCode == code {
				return true
			}
			if rich.Source != nil {
				err = rich.Source
				continue
			}
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// isUniqueViolationText sniffs driver error text; sqlite and postgres are
// the dialects we run against.
func isUniqueViolationText(text string) bool {
	return strings.Contains(text, "UNIQUE constraint failed") ||
		strings.Contains(text, "duplicate key value violates unique constraint")
}

const maxChainDepth = 32

// chainText flattens every message in the error chain into one searchable
// string. Repository wrappers hide the driver text behind a generic
// message, so the top-level Error() alone is not enough: the walk follows
// both standard Unwrap links and rich-error Source links.
func chainText(err error) string {
	var sb strings.Builder
	for depth := 0; err != nil && depth < maxChainDepth; depth++ {
		sb.WriteString(err.Error())
		sb.WriteByte('\n')

		if rich, ok := err.(*errors.Error); ok && rich.Source != nil {
			err = rich.Source
			continue
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return sb.String()
}
