package identity

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	ActivationProfiles() repository.Repository[*ActivationProfile]
}

func NewActivationProfilesRepository(db *bun.DB) repository.Repository[*ActivationProfile] {
	handlers := repository.ModelHandlers[*ActivationProfile]{
		NewRecord: func() *ActivationProfile {
			return &ActivationProfile{}
		},
		GetID: func(record *ActivationProfile) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *ActivationProfile, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "activation_key"
		},
	}
	return repository.NewRepository(db, handlers)
}

type mngr struct {
	db                 *bun.DB
	users              Users
	activationProfiles repository.Repository[*ActivationProfile]
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:                 db,
		users:              NewUsersRepository(db),
		activationProfiles: NewActivationProfilesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.activationProfiles == nil {
		return errors.New("repository activationProfiles should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) ActivationProfiles() repository.Repository[*ActivationProfile] {
	return m.activationProfiles
}
