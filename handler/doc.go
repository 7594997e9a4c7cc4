// Package handler provides the typed request pipeline for JSON APIs.
//
// A request flows through a fixed sequence:
//
//	middleware chain -> validator -> handler -> success envelope
//	        \______________\___________\______> ErrorHandler -> error envelope
//
// # Handlers
//
// Handlers receive a Context and the typed value produced by the route's Validator:
//
//	type CreateUser struct {
//		Email string `json:"email"`
//		Age   int    `json:"age"`
//	}
//
//	var createUserSchema = validator.Struct(func(r CreateUser) []validator.Rule {
//		return []validator.Rule{
//			validator.Email("email", r.Email),
//			validator.Min("age", r.Age, 18),
//		}
//	})
//
//	func createUser(ctx handler.Context, req CreateUser) error {
//		return ctx.Success(req, handler.WithStatus(http.StatusCreated))
//	}
//
//	http.Handle("/users", handler.Wrap(createUser,
//		handler.WithValidator(handler.Validate(createUserSchema)),
//	))
//
// # Success envelope
//
// Context.Success renders
//
//	{"message": "Created", "status": 201, "data": {...}, ...additional}
//
// Data must be a non-nil map, struct, slice or array. Additional fields passed
// with WithAdditional are merged at the top level. Violations are programming
// errors and produce a 500.
//
// # Errors
//
// Every error is passed to a single ErrorHandler, built with NewErrorHandler.
// Translate decides the status and body:
//
//   - *core.SuccessResult renders the success envelope
//   - validator.ValidationErrors renders 422 with one entry per issue
//   - *core.ConstraintError renders 409 with type and field
//   - session.ErrSessionNotFound and session.ErrSessionExpired render 401 invalid_token
//   - core.HTTPError renders its own status
//   - anything else renders 500 "Something is Wrong" and is logged
//
// Error bodies share one shape:
//
//	{"errors": [{"name": "unprocessable_entity", "details": "...", "status": 422, "field": "age", "type": "validation.min"}]}
//
// # Input
//
// Context.Input exposes the request as coerced values: Value looks a field up in
// the body, then the query string, then path parameters; Only, Fields and All
// build maps over those sources. Query and path values go through package coerce.
package handler
