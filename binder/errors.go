package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrInvalidForm          = errors.New("invalid form data")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrNotAnObject          = errors.New("request body must be a JSON object")
)
