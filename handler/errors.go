package handler

import "errors"

// Programming errors. The error handler renders them as 500s.
var (
	// ErrNoResponse indicates a handler returned nil without writing a response
	ErrNoResponse = errors.New("handler: no response written")
	// ErrNoHandler indicates a pipeline was built without a handler
	ErrNoHandler = errors.New("handler: nil handler")
	// ErrInvalidData indicates Success was called with a non-object payload
	ErrInvalidData = errors.New("handler: success data must be a non-nil object or array")
	// ErrInvalidAdditionalData indicates WithAdditional received a non-object value
	ErrInvalidAdditionalData = errors.New("handler: additional data must be a non-nil object")
	// ErrInvalidStatus indicates WithStatus received a code outside 2xx
	ErrInvalidStatus = errors.New("handler: success status must be 2xx")
)
