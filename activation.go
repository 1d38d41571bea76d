package identity

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/google/uuid"
)

const activationSaltLength = 5

// ActivationKeyLength is the hex length of an activation key.
const ActivationKeyLength = sha1.Size * 2

// NewActivationKey derives an opaque activation key for an email address:
// hex(sha1(salt + email)) with a short random salt prefix, so the same
// address yields a different key on every call and the key cannot be
// precomputed from the address alone. The hash input is the UTF-8 byte
// sequence of the normalized address.
func NewActivationKey(email string) string {
	salt := newActivationSalt()
	sum := sha1.Sum([]byte(salt + NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}

func newActivationSalt() string {
	sum := sha1.Sum([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])[:activationSaltLength]
}

// NewActivationProfile builds an unsaved profile for an already persisted
// user, with a freshly derived key.
func NewActivationProfile(user *User) *ActivationProfile {
	p := &ActivationProfile{
		ID:            uuid.New(),
		Email:         NormalizeEmail(user.Email),
		ActivationKey: NewActivationKey(user.Email),
	}

	if user.ID != uuid.Nil {
		id := user.ID
		p.UserID = &id
	}

	return p
}

// IsActivationKey reports whether s has the shape of an activation key.
func IsActivationKey(s string) bool {
	if len(s) != ActivationKeyLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
