package identity

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. There is no username column; email is the login
// identifier and must be unique case-insensitively.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"password_hash,omitempty"`
	IsActive      bool       `bun:"is_active" json:"is_active"`
	IsAdmin       bool       `bun:"is_admin" json:"is_admin,omitempty"`
	IsStaff       bool       `bun:"is_staff" json:"is_staff,omitempty"`
	IsSuperuser   bool       `bun:"is_superuser" json:"is_superuser,omitempty"`
	DateJoined    *time.Time `bun:"date_joined,nullzero,default:current_timestamp" json:"date_joined,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.Name
}

// ShortName returns the compact identifier shown in dense UIs.
func (u *User) ShortName() string {
	return u.Email
}

// ProfileURL is the canonical path for the user's public profile.
func (u *User) ProfileURL() string {
	return "/users/" + url.PathEscape(u.Slug) + "/"
}

// EnsureSlug populates Slug from Name when empty. Uniqueness against the
// store is resolved at persistence time by the users repository.
func (u *User) EnsureSlug() {
	if u.Slug == "" {
		u.Slug = Slugify(u.Name)
	}
}

// NormalizeEmail lower-cases and trims an address so uniqueness comparisons
// and activation-key derivation always see the same byte sequence for the
// same logical address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ActivationProfile binds an activation key to a registered user. It is
// created once, right after the owning user is persisted inactive, and the
// key is never recomputed afterwards.
type ActivationProfile struct {
	bun.BaseModel `bun:"table:activation_profiles,alias:actp"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        *uuid.UUID `bun:"user_id,notnull" json:"user_id,omitempty"`
	User          *User      `bun:"rel:has-one,join:user_id=id" json:"user,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	ActivationKey string     `bun:"activation_key,notnull,unique" json:"activation_key,omitempty"`
	ActivatedAt   *time.Time `bun:"activated_at,nullzero" json:"activated_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// IsActivated reports whether the profile's key has been consumed.
func (p *ActivationProfile) IsActivated() bool {
	return p.ActivatedAt != nil
}

// MarkProfileAsActivated will create a new instance used to persist the
// consumption of an activation key.
func MarkProfileAsActivated(id uuid.UUID) *ActivationProfile {
	p := &ActivationProfile{}
	p.ID = id
	n := time.Now()
	p.ActivatedAt = &n
	return p
}
