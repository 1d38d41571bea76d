package identity_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	identity "github.com/usernameless/go-identity"
)

func TestRegistrationCreatePayloadValidate(t *testing.T) {
	valid := identity.RegistrationCreatePayload{
		Name:            "Alice Liddell",
		Email:           "alice@wonderland.com",
		Password:        "secret-password",
		ConfirmPassword: "secret-password",
	}

	cases := []struct {
		name   string
		mutate func(p *identity.RegistrationCreatePayload)
		field  string
	}{
		{"valid", func(*identity.RegistrationCreatePayload) {}, ""},
		{"missing name", func(p *identity.RegistrationCreatePayload) { p.Name = "" }, "name"},
		{"missing email", func(p *identity.RegistrationCreatePayload) { p.Email = "" }, "email"},
		{"malformed email", func(p *identity.RegistrationCreatePayload) { p.Email = "not-an-email" }, "email"},
		{"short password", func(p *identity.RegistrationCreatePayload) {
			p.Password = "short"
			p.ConfirmPassword = "short"
		}, "password"},
		{"mismatched confirmation", func(p *identity.RegistrationCreatePayload) {
			p.ConfirmPassword = "something-else"
		}, "confirm_password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := valid
			tc.mutate(&payload)

			err := payload.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			fields := identity.FormatValidationErrorToMap(err)
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestAdminCreateUserPayloadValidate(t *testing.T) {
	payload := identity.AdminCreateUserPayload{
		Name:            "Root",
		Email:           "root@wonderland.com",
		Password:        "secret-password",
		ConfirmPassword: "secret-password",
		Superuser:       true,
	}
	assert.NoError(t, payload.Validate())

	payload.ConfirmPassword = "something-else"
	err := payload.Validate()
	assert.Error(t, err)
	assert.Contains(t, identity.FormatValidationErrorToMap(err), "confirm_password")
}

func TestValidateStringEquals(t *testing.T) {
	rule := identity.ValidateStringEquals("secret")

	assert.NoError(t, rule("secret"))
	assert.Error(t, rule("Secret"))
	assert.Error(t, rule(""))
	assert.Error(t, rule(42), "non-string values never match")
}

func TestFormatValidationErrorToMap(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, identity.FormatValidationErrorToMap(nil))
	})

	t.Run("plain error", func(t *testing.T) {
		out := identity.FormatValidationErrorToMap(fmt.Errorf("boom"))
		assert.Equal(t, map[string]string{"error": "boom"}, out)
	})

	t.Run("validation errors", func(t *testing.T) {
		payload := identity.RegistrationCreatePayload{}
		out := identity.FormatValidationErrorToMap(payload.Validate())

		assert.Contains(t, out, "name")
		assert.Contains(t, out, "email")
		assert.Contains(t, out, "password")
		assert.Contains(t, out, "confirm_password")
	})
}
