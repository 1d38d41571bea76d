package identity

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// RegisterIdentityRoutes mounts the routes this package owns as an explicit
// table; hosts compose it with their own routers instead of patching route
// lists by position.
func RegisterIdentityRoutes[T any](app router.Router[T], opts ...ControllerOption) {

	controller := NewRegistrationController(opts...)

	app.Get(controller.Routes.Register, controller.RegistrationShow).
		SetName("register.get")
	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("register.post")

	app.Post(controller.Routes.Users, controller.AdminUserCreate).
		SetName("users.post")
}

type RegistrationControllerRoutes struct {
	Register string
	Users    string
}

type RegistrationControllerViews struct {
	Register string
}

type RegistrationController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Mailer       Mailer
	Site         Site
	Routes       *RegistrationControllerRoutes
	Views        *RegistrationControllerViews
	ErrorHandler router.ErrorHandler
}

type ControllerOption func(*RegistrationController) *RegistrationController

func NewRegistrationController(opts ...ControllerOption) *RegistrationController {
	c := &RegistrationController{
		Logger:       defLogger{},
		Mailer:       noopMailer{},
		Site:         SiteContext{Domain: "localhost"},
		ErrorHandler: defaultErrHandler,
		Routes: &RegistrationControllerRoutes{
			Register: "/register",
			Users:    "/users",
		},
		Views: &RegistrationControllerViews{
			Register: "register",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in registration controller...")
	}

	return c
}

func WithControllerRepo(repo RepositoryManager) ControllerOption {
	return func(c *RegistrationController) *RegistrationController {
		c.Repo = repo
		return c
	}
}

func WithControllerMailer(mailer Mailer) ControllerOption {
	return func(c *RegistrationController) *RegistrationController {
		if mailer != nil {
			c.Mailer = mailer
		}
		return c
	}
}

func WithControllerSite(site Site) ControllerOption {
	return func(c *RegistrationController) *RegistrationController {
		if site != nil {
			c.Site = site
		}
		return c
	}
}

func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *RegistrationController) *RegistrationController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func (a *RegistrationController) RegistrationShow(ctx router.Context) error {
	return ctx.Render(a.Views.Register, router.ViewContext{
		"errors": map[string]string{},
		"record": RegistrationCreatePayload{},
	})
}

// RegistrationCreatePayload is the self-registration form payload.
type RegistrationCreatePayload struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *RegistrationController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Register, router.ViewContext{
			"errors": map[string]string{"form": "Failed to parse form"},
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.Register, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= REGISTER USER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	req := RegisterInactiveUserMessage{
		Name:      payload.Name,
		Email:     payload.Email,
		Password:  payload.Password,
		Site:      a.Site,
		SendEmail: true,
	}

	register := NewRegisterInactiveUserHandler(a.Repo).
		WithMailer(a.Mailer).
		WithLogger(a.Logger)

	if err := register.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("register user error: %v", err)

		if IsDuplicateEmail(err) {
			return flash.WithError(ctx, router.ViewContext{
				"error_message":  "This email is already taken.",
				"system_message": "Error registering user",
			}).Render(a.Views.Register, router.ViewContext{
				"record": payload,
				"errors": map[string]string{"email": "This email is already taken."},
			})
		}

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error registering user",
		}).Render(a.Views.Register, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Check your inbox for the activation link",
	}).Redirect("/", fiber.StatusSeeOther)
}

// AdminCreateUserPayload is the admin creation payload. It shares the
// password-confirmation rule with self-registration so the check lives in
// exactly one place.
type AdminCreateUserPayload struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	Superuser       bool   `form:"superuser" json:"superuser"`
}

// Validate will validate the payload
func (r AdminCreateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *RegistrationController) AdminUserCreate(ctx router.Context) error {
	payload := new(AdminCreateUserPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("create user parse payload: %v", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error": "Failed to parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("create user validate payload: %v", err)
		return ctx.JSON(fiber.StatusUnprocessableEntity, router.ViewContext{
			"validation": FormatValidationErrorToMap(err),
		})
	}

	var res *RegisterUserResponse

	req := RegisterUserMessage{
		Name:      payload.Name,
		Email:     payload.Email,
		Password:  payload.Password,
		Superuser: payload.Superuser,
		OnResponse: func(resp *RegisterUserResponse) {
			res = resp
		},
	}

	create := NewRegisterUserHandler(a.Repo).WithLogger(a.Logger)

	if err := create.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("create user error: %v", err)

		if IsDuplicateEmail(err) {
			return ctx.JSON(fiber.StatusConflict, router.ViewContext{
				"error": "This email is already taken.",
			})
		}

		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, res.User)
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field-to-message map for views.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
