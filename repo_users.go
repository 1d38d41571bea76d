package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ActivateUserSQL = `UPDATE "users" AS "usr"
SET
	"is_active" = TRUE
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

var DeactivateUserSQL = `UPDATE "users" AS "usr"
SET
	"is_active" = FALSE
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)
	GetOrCreate(ctx context.Context, record *User) (*User, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	Activate(ctx context.Context, id uuid.UUID) error
	ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeactivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	return a.CreateTx(ctx, tx, user)
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)

	if err := a.resolveSlugTx(ctx, tx, record); err != nil {
		return nil, err
	}

	user, err := a.Repository.CreateTx(ctx, tx, record, criteria...)
	if err != nil {
		if IsDuplicateEmail(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "this email is already taken").
				WithTextCode(TextCodeDuplicateEmail).
				WithCode(goerrors.CodeConflict)
		}
		return nil, err
	}

	return user, nil
}

func (a *users) GetOrCreate(ctx context.Context, record *User) (*User, error) {
	return a.GetOrCreateTx(ctx, a.db, record)
}

func (a *users) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	user, err := a.GetByEmailTx(ctx, tx, record.Email)
	if err == nil {
		return user, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	return a.CreateTx(ctx, tx, record)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("LOWER(?TableAlias.email) = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Activate(ctx context.Context, id uuid.UUID) error {
	return a.ActivateTx(ctx, a.db, id)
}

func (a *users) ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	return a.setActiveTx(ctx, tx, id, ActivateUserSQL)
}

func (a *users) Deactivate(ctx context.Context, id uuid.UUID) error {
	return a.DeactivateTx(ctx, a.db, id)
}

func (a *users) DeactivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	return a.setActiveTx(ctx, tx, id, DeactivateUserSQL)
}

func (a *users) setActiveTx(ctx context.Context, tx bun.IDB, id uuid.UUID, query string) error {
	res, err := a.Repository.RawTx(ctx, tx, query, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

// resolveSlugTx keeps slugs unique by suffixing the base slug until it no
// longer collides with an existing row.
func (a *users) resolveSlugTx(ctx context.Context, tx bun.IDB, record *User) error {
	base := record.Slug
	if base == "" {
		base = Slugify(record.Name)
	}

	var taken []string
	err := tx.NewSelect().
		Model((*User)(nil)).
		Column("slug").
		Where("?TableAlias.slug = ? OR ?TableAlias.slug LIKE ?", base, base+"-%").
		Scan(ctx, &taken)
	if err != nil {
		return err
	}

	record.Slug = NextSlug(base, taken)

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.Email = NormalizeEmail(record.Email)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.DateJoined == nil {
		now := time.Now()
		record.DateJoined = &now
	}

	record.EnsureSlug()
}
