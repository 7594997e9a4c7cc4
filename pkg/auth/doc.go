// Package auth issues and verifies session-bound access tokens.
//
// Each call to GenerateToken opens a session with a random secret and signs the
// token {"id": principal, "session": session id} with that secret. Verification
// decodes the payload, loads the session and then checks the signature, so a
// deleted or expired session rejects every token issued for it.
//
// Usage:
//
//	svc := auth.NewService(store, auth.WithTokenTTL(12*time.Hour))
//	token, err := svc.GenerateToken(ctx, user.ID)
//
//	r.Handle(router.Route[struct{}]{
//		Method:     "get",
//		Path:       "/me",
//		Middleware: []handler.Middleware{svc.Middleware()},
//		Handler:    me,
//	})
//
// Login and Register wrap the password flow around GenerateToken with a
// pluggable PasswordHasher (bcrypt by default).
package auth
