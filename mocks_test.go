package identity_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"

	identity "github.com/usernameless/go-identity"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockRepositoryManager implements identity.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
	// ExecuteTx makes RunInTx run the given function with a zero bun.Tx
	// and return its error, mirroring the real transaction scope.
	ExecuteTx bool
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	if m.ExecuteTx {
		var tx bun.Tx
		return f(ctx, tx)
	}
	args := m.Called(ctx, opts, f)
	return args.Error(0)
}

func (m *MockRepositoryManager) Users() identity.Users {
	args := m.Called()
	return args.Get(0).(identity.Users)
}

func (m *MockRepositoryManager) ActivationProfiles() repository.Repository[*identity.ActivationProfile] {
	args := m.Called()
	return args.Get(0).(repository.Repository[*identity.ActivationProfile])
}

// MockUsers mocks the methods the flows under test reach for; anything
// else panics through the embedded nil interface.
type MockUsers struct {
	identity.Users
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, record *identity.User, criteria ...repository.InsertCriteria) (*identity.User, error) {
	args := m.Called(ctx, record)
	return echoUser(record, args)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *identity.User, criteria ...repository.InsertCriteria) (*identity.User, error) {
	args := m.Called(ctx, tx, record)
	return echoUser(record, args)
}

func (m *MockUsers) DeactivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*identity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// echoUser hands the inserted record back when the expectation returned
// (nil, nil), matching what the real repository does.
func echoUser(record *identity.User, args mock.Arguments) (*identity.User, error) {
	if u, ok := args.Get(0).(*identity.User); ok && u != nil {
		return u, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return record, nil
}

// MockActivationProfiles mocks the profile repository.
type MockActivationProfiles struct {
	repository.Repository[*identity.ActivationProfile]
	mock.Mock
}

func (m *MockActivationProfiles) CreateTx(ctx context.Context, tx bun.IDB, record *identity.ActivationProfile, criteria ...repository.InsertCriteria) (*identity.ActivationProfile, error) {
	args := m.Called(ctx, tx, record)
	if p, ok := args.Get(0).(*identity.ActivationProfile); ok && p != nil {
		return p, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return record, nil
}

type sentEmail struct {
	To            string
	ActivationKey string
	Site          identity.Site
}

// recordingMailer captures dispatch attempts; Sent is buffered so the
// fire-and-forget goroutine never blocks.
type recordingMailer struct {
	Sent chan sentEmail
	Err  error
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{Sent: make(chan sentEmail, 4)}
}

func (r *recordingMailer) Send(to, subject, body string) error {
	return r.Err
}

func (r *recordingMailer) SendActivationEmail(to, activationKey string, site identity.Site) error {
	r.Sent <- sentEmail{To: to, ActivationKey: activationKey, Site: site}
	return r.Err
}

func (r *recordingMailer) waitForSend(timeout time.Duration) (sentEmail, bool) {
	select {
	case msg := <-r.Sent:
		return msg, true
	case <-time.After(timeout):
		return sentEmail{}, false
	}
}
