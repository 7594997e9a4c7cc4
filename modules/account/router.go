package account

import (
	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/auth"
	"github.com/dmitrymomot/apikit/router"
)

// Routes returns the public and authenticated account endpoints mounted under prefix:
//
//	POST   {prefix}/register
//	POST   {prefix}/login
//	GET    {prefix}/me
//	POST   {prefix}/logout
//	POST   {prefix}/logout-all
func (s *PasswordService) Routes(prefix string, opts ...auth.MiddlewareOption) []router.Group {
	return []router.Group{
		{
			Prefix:     prefix,
			Middleware: s.limit,
			Routes: []router.Definition{
				router.Route[RegisterRequest]{
					Method:    router.MethodPost,
					Path:      "/register",
					Handler:   s.register,
					Validator: handler.Validate(s.registerSchema()),
					Disabled:  !s.cfg.RegistrationEnabled,
				},
				router.Route[LoginRequest]{
					Method:    router.MethodPost,
					Path:      "/login",
					Handler:   s.login,
					Validator: handler.Validate(loginSchema),
				},
			},
		},
		{
			Prefix:     prefix,
			Middleware: []handler.Middleware{s.auth.Middleware(opts...)},
			Routes: []router.Definition{
				router.Route[struct{}]{Method: router.MethodGet, Path: "/me", Handler: s.me},
				router.Route[struct{}]{Method: router.MethodPost, Path: "/logout", Handler: s.logout},
				router.Route[struct{}]{Method: router.MethodPost, Path: "/logout-all", Handler: s.logoutAll},
			},
		},
	}
}
