package identity

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// IdentityManager is the single entry point for constructing users, so the
// required-field and email-normalization invariants hold on every creation
// path. It owns no transaction; callers that need the user write to commit
// together with other writes use the Tx variants.
type IdentityManager struct {
	repo      RepositoryManager
	logger    Logger
	useHashID bool
}

// NewIdentityManager creates a manager with sane defaults.
func NewIdentityManager(repo RepositoryManager) *IdentityManager {
	return &IdentityManager{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the manager.
func (m *IdentityManager) WithLogger(logger Logger) *IdentityManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithDeterministicIDs derives user IDs from the normalized email instead
// of random UUIDs.
func (m *IdentityManager) WithDeterministicIDs(enabled bool) *IdentityManager {
	m.useHashID = enabled
	return m
}

// CreateUser creates and persists a user with the given name, email and
// password. The user is active; self-registration flows deactivate it
// before their transaction commits.
func (m *IdentityManager) CreateUser(ctx context.Context, name, email, password string) (*User, error) {
	user, err := m.buildUser(name, email, password)
	if err != nil {
		return nil, err
	}
	return m.repo.Users().Create(ctx, user)
}

// CreateUserTx is CreateUser inside the caller's transaction.
func (m *IdentityManager) CreateUserTx(ctx context.Context, tx bun.IDB, name, email, password string) (*User, error) {
	user, err := m.buildUser(name, email, password)
	if err != nil {
		return nil, err
	}
	return m.repo.Users().CreateTx(ctx, tx, user)
}

// CreateSuperuser creates and persists a user with the admin, staff and
// superuser flags raised.
func (m *IdentityManager) CreateSuperuser(ctx context.Context, name, email, password string) (*User, error) {
	user, err := m.buildUser(name, email, password)
	if err != nil {
		return nil, err
	}
	elevate(user)
	return m.repo.Users().Create(ctx, user)
}

// CreateSuperuserTx is CreateSuperuser inside the caller's transaction.
func (m *IdentityManager) CreateSuperuserTx(ctx context.Context, tx bun.IDB, name, email, password string) (*User, error) {
	user, err := m.buildUser(name, email, password)
	if err != nil {
		return nil, err
	}
	elevate(user)
	return m.repo.Users().CreateTx(ctx, tx, user)
}

func (m *IdentityManager) buildUser(name, email, password string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}

	if strings.TrimSpace(email) == "" {
		return nil, ErrMissingEmail
	}

	user := &User{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		IsActive: true,
	}

	if password == "" {
		user.PasswordHash = RandomPasswordHash()
	} else {
		hash, err := HashPassword(password)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}
		user.PasswordHash = hash
	}

	if m.useHashID {
		if id, err := hashid.NewUUID(user.Email); err == nil {
			user.ID = id
		}
	}

	return user, nil
}

func elevate(user *User) {
	user.IsAdmin = true
	user.IsStaff = true
	user.IsSuperuser = true
}
