package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/auth"
	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

// Config toggles account endpoints.
type Config struct {
	RegistrationEnabled bool `env:"ACCOUNT_REGISTRATION_ENABLED" envDefault:"true"`
	MinPasswordLength   int  `env:"ACCOUNT_MIN_PASSWORD_LENGTH" envDefault:"8"`
}

// PasswordService serves email and password authentication.
type PasswordService struct {
	cfg     Config
	storage Storage
	auth    *auth.Service
	log     *slog.Logger
	limit   []handler.Middleware
}

// Option configures a PasswordService.
type Option func(*PasswordService)

func WithLogger(l *slog.Logger) Option {
	return func(s *PasswordService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithThrottle runs mw before the register and login handlers, e.g. a
// ratelimit.Middleware keyed by client address.
func WithThrottle(mw ...handler.Middleware) Option {
	return func(s *PasswordService) {
		s.limit = append(s.limit, mw...)
	}
}

func NewPasswordService(cfg Config, storage Storage, authSvc *auth.Service, opts ...Option) *PasswordService {
	if storage == nil {
		panic(ErrNilStorage)
	}
	if authSvc == nil {
		panic("account: auth service is required")
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 8
	}
	s := &PasswordService{cfg: cfg, storage: storage, auth: authSvc, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *PasswordService) registerSchema() validator.Schema[RegisterRequest] {
	return validator.Struct(func(r RegisterRequest) []validator.Rule {
		return []validator.Rule{
			validator.Required("email", r.Email),
			validator.Email("email", r.Email),
			validator.MaxLen("name", r.Name, 100),
			validator.Password("password", r.Password, s.cfg.MinPasswordLength),
			validator.MaxBytes("password", r.Password, auth.MaxPasswordBytes),
		}
	})
}

var loginSchema = validator.Struct(func(r LoginRequest) []validator.Rule {
	return []validator.Rule{
		validator.Required("email", r.Email),
		validator.Required("password", r.Password),
	}
})

func (s *PasswordService) register(ctx handler.Context, req RegisterRequest) error {
	res, err := auth.Register(ctx, s.auth, s.storage.CreateUser, NewUser{Email: req.Email, Name: req.Name}, req.Password)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user registered", logger.PrincipalID(res.Record.ID), logger.Component("account"))
	return ctx.Success(res, handler.WithStatus(http.StatusCreated))
}

func (s *PasswordService) login(ctx handler.Context, req LoginRequest) error {
	res, err := auth.Login(ctx, s.auth, s.storage.GetUserByEmail, req.Email, req.Password)
	if err != nil {
		return err
	}
	return ctx.Success(res)
}

func (s *PasswordService) me(ctx handler.Context, _ struct{}) error {
	user, err := s.storage.GetUserByID(ctx, ctx.PrincipalID())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return core.NotFound("user no longer exists")
		}
		return err
	}
	return ctx.Success(user)
}

type logoutResponse struct {
	LoggedOut bool `json:"loggedOut"`
}

func (s *PasswordService) logout(ctx handler.Context, _ struct{}) error {
	if err := s.auth.RevokeSession(ctx, auth.SessionID(ctx)); err != nil {
		return err
	}
	return ctx.Success(logoutResponse{LoggedOut: true})
}

func (s *PasswordService) logoutAll(ctx handler.Context, _ struct{}) error {
	if err := s.auth.RevokeAll(ctx, ctx.PrincipalID()); err != nil {
		return err
	}
	return ctx.Success(logoutResponse{LoggedOut: true})
}
