package core

// Reject helpers build client errors with a human-readable explanation.
// An empty details string keeps the standard status text.

func BadRequest(details string) error          { return ErrBadRequest.WithDetails(details) }
func Unauthorized(details string) error        { return ErrUnauthorized.WithDetails(details) }
func Forbidden(details string) error           { return ErrForbidden.WithDetails(details) }
func NotFound(details string) error            { return ErrNotFound.WithDetails(details) }
func Conflict(details string) error            { return ErrConflict.WithDetails(details) }
func Gone(details string) error                { return ErrGone.WithDetails(details) }
func PayloadTooLarge(details string) error     { return ErrRequestEntityTooLarge.WithDetails(details) }
func UnprocessableEntity(details string) error { return ErrUnprocessableEntity.WithDetails(details) }
