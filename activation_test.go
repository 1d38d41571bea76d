package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewActivationKeyShape(t *testing.T) {
	key := NewActivationKey("alice@wonderland.com")

	if len(key) != ActivationKeyLength {
		t.Fatalf("expected %d chars, got %d (%q)", ActivationKeyLength, len(key), key)
	}
	if !IsActivationKey(key) {
		t.Fatalf("expected %q to parse as an activation key", key)
	}
}

func TestNewActivationKeyIsSalted(t *testing.T) {
	email := "alice@wonderland.com"

	a := NewActivationKey(email)
	b := NewActivationKey(email)

	if a == b {
		t.Fatalf("two keys for the same address should differ, both %q", a)
	}
}

func TestNewActivationProfile(t *testing.T) {
	user := &User{
		ID:    uuid.New(),
		Name:  "Alice",
		Email: "Alice@Wonderland.com",
	}

	p := NewActivationProfile(user)

	if p.ID == uuid.Nil {
		t.Fatal("expected profile id to be set")
	}
	if p.UserID == nil || *p.UserID != user.ID {
		t.Fatalf("expected profile bound to user %s", user.ID)
	}
	if p.Email != "alice@wonderland.com" {
		t.Fatalf("expected normalized email, got %q", p.Email)
	}
	if !IsActivationKey(p.ActivationKey) {
		t.Fatalf("unexpected key %q", p.ActivationKey)
	}
	if p.IsActivated() {
		t.Fatal("fresh profile must not report activated")
	}
}

func TestIsActivationKey(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3", true},
		{"too short", "a94a8fe5", false},
		{"not hex", "z94a8fe5ccb19ba61c4c0873d391e987982fbbd3", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsActivationKey(tc.input); got != tc.want {
				t.Fatalf("IsActivationKey(%q) = %t, want %t", tc.input, got, tc.want)
			}
		})
	}
}
