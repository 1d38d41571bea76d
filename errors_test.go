package identity

import (
	"fmt"
	"testing"

	"github.com/goliatone/go-errors"
)

func TestIsMissingRequiredField(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"missing name", ErrMissingName, true},
		{"missing email", ErrMissingEmail, true},
		{"wrapped", fmt.Errorf("create user: %w", ErrMissingEmail), true},
		{"other sentinel", ErrDuplicateEmail, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsMissingRequiredField(tc.err); got != tc.want {
				t.Fatalf("IsMissingRequiredField = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestIsDuplicateEmail(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrDuplicateEmail, true},
		{"wrapped sentinel", errors.Wrap(ErrDuplicateEmail, errors.CategoryConflict, "insert user").WithTextCode(TextCodeDuplicateEmail), true},
		{"sqlite driver", fmt.Errorf("UNIQUE constraint failed: users.email"), true},
		{"sqlite expression index", fmt.Errorf("constraint failed: UNIQUE constraint failed: index 'users_email_lower_uidx'"), true},
		{"postgres driver", fmt.Errorf("ERROR: duplicate key value violates unique constraint \"users_email_lower_uidx\""), true},
		// repository layers hide the driver text behind a generic message;
		// classification must reach the buried cause
		{
			"driver text behind generic rich wrapper",
			errors.Wrap(
				fmt.Errorf("UNIQUE constraint failed: index 'users_email_lower_uidx'"),
				errors.CategoryInternal,
				"An unexpected error occurred.",
			),
			true,
		},
		{
			"driver text two levels deep",
			fmt.Errorf("insert user: %w", errors.Wrap(
				fmt.Errorf("UNIQUE constraint failed: users.email"),
				errors.CategoryInternal,
				"An unexpected error occurred.",
			)),
			true,
		},
		{"unrelated unique", fmt.Errorf("UNIQUE constraint failed: users.slug"), false},
		{"plain error", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateEmail(tc.err); got != tc.want {
				t.Fatalf("IsDuplicateEmail = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestIsDuplicateActivationKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrDuplicateActivationKey, true},
		{"sqlite driver", fmt.Errorf("UNIQUE constraint failed: activation_profiles.activation_key"), true},
		{
			"driver text behind generic rich wrapper",
			errors.Wrap(
				fmt.Errorf("UNIQUE constraint failed: activation_profiles.activation_key"),
				errors.CategoryInternal,
				"An unexpected error occurred.",
			),
			true,
		},
		{"email violation", fmt.Errorf("UNIQUE constraint failed: users.email"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateActivationKey(tc.err); got != tc.want {
				t.Fatalf("IsDuplicateActivationKey = %t, want %t", got, tc.want)
			}
		})
	}
}
