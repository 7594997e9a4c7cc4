package core

import "net/http"

// SuccessResult is returned as an error to end a request early with a success envelope.
// The error translator renders it exactly like Context.Success.
type SuccessResult struct {
	Code int
	Data any
}

// Succeed builds a SuccessResult. A status outside 2xx defaults to 200.
//
// Example:
//
//	if cached, ok := cache.Get(key); ok {
//		return core.Succeed(cached, http.StatusOK)
//	}
func Succeed(data any, status int) *SuccessResult {
	if status < 200 || status > 299 {
		status = http.StatusOK
	}
	return &SuccessResult{Code: status, Data: data}
}

func (s *SuccessResult) Error() string {
	return "success: " + http.StatusText(s.Code)
}
