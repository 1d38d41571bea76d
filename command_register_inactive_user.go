package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RegisterInactiveUserMessage is the self-registration flow: the user is
// created inactive with an activation profile, and an activation email is
// optionally dispatched. The caller has already confirmed the password
// against its confirmation field.
type RegisterInactiveUserMessage struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Site       Site
	SendEmail  bool
	OnResponse func(resp *RegisterInactiveUserResponse)
}

func (e RegisterInactiveUserMessage) Type() string { return "user.register_inactive" }

type RegisterInactiveUserResponse struct {
	User    *User
	Profile *ActivationProfile
	// EmailDispatched records that a delivery attempt was made; delivery
	// itself is best-effort and never reported back here.
	EmailDispatched bool
}

type RegisterInactiveUserHandler struct {
	repo     RepositoryManager
	identity *IdentityManager
	mailer   Mailer
	logger   Logger
}

// NewRegisterInactiveUserHandler creates a handler with sane defaults.
func NewRegisterInactiveUserHandler(repo RepositoryManager) *RegisterInactiveUserHandler {
	return &RegisterInactiveUserHandler{
		repo:     repo,
		identity: NewIdentityManager(repo),
		mailer:   noopMailer{},
		logger:   defLogger{},
	}
}

// WithMailer sets the transport used for activation notifications.
func (h *RegisterInactiveUserHandler) WithMailer(mailer Mailer) *RegisterInactiveUserHandler {
	if mailer != nil {
		h.mailer = mailer
	}
	return h
}

// WithIdentityManager overrides the manager used to construct users.
func (h *RegisterInactiveUserHandler) WithIdentityManager(m *IdentityManager) *RegisterInactiveUserHandler {
	if m != nil {
		h.identity = m
	}
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterInactiveUserHandler) WithLogger(logger Logger) *RegisterInactiveUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterInactiveUserHandler) Execute(ctx context.Context, event RegisterInactiveUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during inactive user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterInactiveUserHandler) execute(ctx context.Context, event RegisterInactiveUserMessage) error {
	var user *User
	var profile *ActivationProfile

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	// user, deactivation, and profile commit together or not at all; the
	// notification stays outside the boundary on purpose
	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if user, err = h.identity.CreateUserTx(ctx, tx, event.Name, event.Email, event.Password); err != nil {
			return err
		}

		if err = h.repo.Users().DeactivateTx(ctx, tx, user.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to deactivate new user")
		}
		user.IsActive = false

		if profile, err = h.createProfileTx(ctx, tx, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "inactive user registration transaction failed")
	}

	resp := &RegisterInactiveUserResponse{User: user, Profile: profile}

	if event.SendEmail {
		resp.EmailDispatched = true
		go h.dispatchActivationEmail(user.Email, profile.ActivationKey, event.Site)
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

// CreateProfile derives and persists an activation profile for an already
// persisted user. Keys are salted, so repeated calls for the same user
// yield different keys.
func (h *RegisterInactiveUserHandler) CreateProfile(ctx context.Context, user *User) (*ActivationProfile, error) {
	var profile *ActivationProfile

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		profile, err = h.createProfileTx(ctx, tx, user)
		return err
	})

	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (h *RegisterInactiveUserHandler) createProfileTx(ctx context.Context, tx bun.IDB, user *User) (*ActivationProfile, error) {
	profile, err := h.repo.ActivationProfiles().CreateTx(ctx, tx, NewActivationProfile(user))
	if err == nil {
		return profile, nil
	}

	if !IsDuplicateActivationKey(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create activation profile")
	}

	// one retry with a fresh salt; a second collision is not chance
	profile, err = h.repo.ActivationProfiles().CreateTx(ctx, tx, NewActivationProfile(user))
	if err != nil {
		if IsDuplicateActivationKey(err) {
			return nil, ErrDuplicateActivationKey
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create activation profile")
	}

	return profile, nil
}

func (h *RegisterInactiveUserHandler) dispatchActivationEmail(to, activationKey string, site Site) {
	if site == nil {
		site = SiteContext{Domain: "localhost"}
	}

	if err := h.mailer.SendActivationEmail(to, activationKey, site); err != nil {
		// the registration is already committed; the host needs an
		// out-of-band resend path for this case
		h.logger.Error("activation email delivery failed (%s): to=%s err=%v",
			TextCodeNotificationFailed, to, err)
	}
}
