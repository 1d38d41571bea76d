package identity

import (
	"database/sql"

	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Module holds the package's wired collaborators. Build one with Setup from
// the host's startup sequence; nothing here runs at import time.
type Module struct {
	db       *bun.DB
	repo     RepositoryManager
	identity *IdentityManager
	mailer   Mailer
	site     Site
	logger   Logger
}

type SetupOption func(*Module)

func WithRepositoryManager(repo RepositoryManager) SetupOption {
	return func(m *Module) {
		m.repo = repo
	}
}

func WithMailer(mailer Mailer) SetupOption {
	return func(m *Module) {
		if mailer != nil {
			m.mailer = mailer
		}
	}
}

func WithSite(site Site) SetupOption {
	return func(m *Module) {
		if site != nil {
			m.site = site
		}
	}
}

func WithLogger(logger Logger) SetupOption {
	return func(m *Module) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Setup wires repositories, the identity manager, and the mailer once, and
// validates the result.
func Setup(db *bun.DB, opts ...SetupOption) (*Module, error) {
	m := &Module{
		db:     db,
		mailer: noopMailer{},
		site:   SiteContext{Domain: "localhost"},
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.repo == nil {
		m.repo = NewRepositoryManager(db)
	}

	if err := m.repo.Validate(); err != nil {
		return nil, err
	}

	m.identity = NewIdentityManager(m.repo).WithLogger(m.logger)

	return m, nil
}

// Repo exposes the repository manager.
func (m *Module) Repo() RepositoryManager {
	return m.repo
}

// Identity exposes the identity manager.
func (m *Module) Identity() *IdentityManager {
	return m.identity
}

// Registrations builds the inactive-registration handler with the module's
// mailer and logger.
func (m *Module) Registrations() *RegisterInactiveUserHandler {
	return NewRegisterInactiveUserHandler(m.repo).
		WithIdentityManager(m.identity).
		WithMailer(m.mailer).
		WithLogger(m.logger)
}

// MountRoutes registers the module's route table on the host router.
func MountRoutes[T any](m *Module, app router.Router[T], opts ...ControllerOption) {
	base := []ControllerOption{
		WithControllerRepo(m.repo),
		WithControllerMailer(m.mailer),
		WithControllerSite(m.site),
		WithControllerLogger(m.logger),
	}
	RegisterIdentityRoutes(app, append(base, opts...)...)
}

// OpenSQLite opens a bun DB over the sqlite shim driver. Convenience for
// hosts and tests; production deployments usually bring their own *bun.DB.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
