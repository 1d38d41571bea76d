// Package identity replaces username-based accounts with an email-based
// identity plus an inactive-registration workflow.
//
// User creation:
//   - IdentityManager is the single entry point for constructing users and
//     superusers. It enforces the required-field invariants (name, email),
//     normalizes email addresses before uniqueness checks, and hashes
//     passwords with bcrypt so plaintext never reaches the store.
//
// Inactive registration:
//   - RegisterInactiveUserHandler creates a user, parks it inactive, and
//     derives a salted ActivationProfile in one transaction. The activation
//     notification is dispatched after commit, best-effort: a mail outage
//     never unwinds a committed registration, so hosts should provide an
//     out-of-band resend path.
//
// Wiring:
//   - Nothing in this package runs at import time. Hosts call Setup once
//     from their startup sequence and mount the explicit route table with
//     RegisterIdentityRoutes.
package identity
