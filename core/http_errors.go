package core

import (
	"fmt"
	"net/http"
)

// HTTPError is a client-facing failure with a status code and a machine-readable key.
// The Key doubles as the "name" field of the error envelope and as an i18n lookup key.
type HTTPError struct {
	Kind    Kind
	Code    int    // HTTP status code
	Key     string // e.g. "not_found", "invalid_token"
	Details string // human-readable explanation, optional
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Details)
	}
	return e.Key
}

// Is matches errors with the same status code and key, ignoring details.
// This keeps errors.Is(err, core.ErrNotFound) true for errors built with WithDetails.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Key == t.Key
}

// WithDetails returns a copy of the error carrying the given explanation.
func (e HTTPError) WithDetails(details string) HTTPError {
	e.Details = details
	return e
}

// Message returns the details, falling back to the standard status text.
func (e HTTPError) Message() string {
	if e.Details != "" {
		return e.Details
	}
	return http.StatusText(e.Code)
}

// StatusKey returns the snake_case key for a status code, or an empty string
// if the code is not a registered HTTP status.
func StatusKey(code int) string {
	return statusKeys[code]
}

// NewHTTPError creates a custom HTTP error with the given status code and key.
// An empty key is replaced by the key registered for the status code.
//
// Example:
//
//	err := core.NewHTTPError(http.StatusForbidden, "insufficient_permissions")
func NewHTTPError(code int, key string) HTTPError {
	if key == "" {
		key = StatusKey(code)
	}
	return HTTPError{Kind: KindHTTP, Code: code, Key: key}
}

var statusKeys = map[int]string{
	http.StatusContinue:           "continue",
	http.StatusSwitchingProtocols: "switching_protocols",
	http.StatusProcessing:         "processing",
	http.StatusEarlyHints:         "early_hints",

	http.StatusOK:                   "ok",
	http.StatusCreated:              "created",
	http.StatusAccepted:             "accepted",
	http.StatusNonAuthoritativeInfo: "non_authoritative_info",
	http.StatusNoContent:            "no_content",
	http.StatusResetContent:         "reset_content",
	http.StatusPartialContent:       "partial_content",
	http.StatusMultiStatus:          "multi_status",
	http.StatusAlreadyReported:      "already_reported",
	http.StatusIMUsed:               "im_used",

	http.StatusMultipleChoices:   "multiple_choices",
	http.StatusMovedPermanently:  "moved_permanently",
	http.StatusFound:             "found",
	http.StatusSeeOther:          "see_other",
	http.StatusNotModified:       "not_modified",
	http.StatusUseProxy:          "use_proxy",
	http.StatusTemporaryRedirect: "temporary_redirect",
	http.StatusPermanentRedirect: "permanent_redirect",

	http.StatusBadRequest:                   "bad_request",
	http.StatusUnauthorized:                 "unauthorized",
	http.StatusPaymentRequired:              "payment_required",
	http.StatusForbidden:                    "forbidden",
	http.StatusNotFound:                     "not_found",
	http.StatusMethodNotAllowed:             "method_not_allowed",
	http.StatusNotAcceptable:                "not_acceptable",
	http.StatusProxyAuthRequired:            "proxy_auth_required",
	http.StatusRequestTimeout:               "request_timeout",
	http.StatusConflict:                     "conflict",
	http.StatusGone:                         "gone",
	http.StatusLengthRequired:               "length_required",
	http.StatusPreconditionFailed:           "precondition_failed",
	http.StatusRequestEntityTooLarge:        "request_entity_too_large",
	http.StatusRequestURITooLong:            "request_uri_too_long",
	http.StatusUnsupportedMediaType:         "unsupported_media_type",
	http.StatusRequestedRangeNotSatisfiable: "requested_range_not_satisfiable",
	http.StatusExpectationFailed:            "expectation_failed",
	http.StatusTeapot:                       "teapot",
	http.StatusMisdirectedRequest:           "misdirected_request",
	http.StatusUnprocessableEntity:          "unprocessable_entity",
	http.StatusLocked:                       "locked",
	http.StatusFailedDependency:             "failed_dependency",
	http.StatusTooEarly:                     "too_early",
	http.StatusUpgradeRequired:              "upgrade_required",
	http.StatusPreconditionRequired:         "precondition_required",
	http.StatusTooManyRequests:              "too_many_requests",
	http.StatusRequestHeaderFieldsTooLarge:  "request_header_fields_too_large",
	http.StatusUnavailableForLegalReasons:   "unavailable_for_legal_reasons",

	http.StatusInternalServerError:           "internal_server_error",
	http.StatusNotImplemented:                "not_implemented",
	http.StatusBadGateway:                    "bad_gateway",
	http.StatusServiceUnavailable:            "service_unavailable",
	http.StatusGatewayTimeout:                "gateway_timeout",
	http.StatusHTTPVersionNotSupported:       "http_version_not_supported",
	http.StatusVariantAlsoNegotiates:         "variant_also_negotiates",
	http.StatusInsufficientStorage:           "insufficient_storage",
	http.StatusLoopDetected:                  "loop_detected",
	http.StatusNotExtended:                   "not_extended",
	http.StatusNetworkAuthenticationRequired: "network_authentication_required",
}

// 4xx Client Errors
var (
	ErrBadRequest                  = NewHTTPError(http.StatusBadRequest, "")
	ErrUnauthorized                = NewHTTPError(http.StatusUnauthorized, "")
	ErrPaymentRequired             = NewHTTPError(http.StatusPaymentRequired, "")
	ErrForbidden                   = NewHTTPError(http.StatusForbidden, "")
	ErrNotFound                    = NewHTTPError(http.StatusNotFound, "")
	ErrMethodNotAllowed            = NewHTTPError(http.StatusMethodNotAllowed, "")
	ErrNotAcceptable               = NewHTTPError(http.StatusNotAcceptable, "")
	ErrRequestTimeout              = NewHTTPError(http.StatusRequestTimeout, "")
	ErrConflict                    = NewHTTPError(http.StatusConflict, "")
	ErrGone                        = NewHTTPError(http.StatusGone, "")
	ErrLengthRequired              = NewHTTPError(http.StatusLengthRequired, "")
	ErrPreconditionFailed          = NewHTTPError(http.StatusPreconditionFailed, "")
	ErrRequestEntityTooLarge       = NewHTTPError(http.StatusRequestEntityTooLarge, "")
	ErrUnsupportedMediaType        = NewHTTPError(http.StatusUnsupportedMediaType, "")
	ErrUnprocessableEntity         = NewHTTPError(http.StatusUnprocessableEntity, "")
	ErrLocked                      = NewHTTPError(http.StatusLocked, "")
	ErrTooManyRequests             = NewHTTPError(http.StatusTooManyRequests, "")
	ErrRequestHeaderFieldsTooLarge = NewHTTPError(http.StatusRequestHeaderFieldsTooLarge, "")
)

// 5xx Server Errors
var (
	ErrInternalServerError = NewHTTPError(http.StatusInternalServerError, "")
	ErrNotImplemented      = NewHTTPError(http.StatusNotImplemented, "")
	ErrBadGateway          = NewHTTPError(http.StatusBadGateway, "")
	ErrServiceUnavailable  = NewHTTPError(http.StatusServiceUnavailable, "")
	ErrGatewayTimeout      = NewHTTPError(http.StatusGatewayTimeout, "")
)

// Authentication errors.
var (
	ErrRequiredToken = HTTPError{
		Kind:    KindRequiredToken,
		Code:    http.StatusUnauthorized,
		Key:     "required_token",
		Details: "Cannot authorize the request because a JWT authorization was not specified",
	}
	ErrMalformedToken = HTTPError{
		Kind:    KindMalformedToken,
		Code:    http.StatusBadRequest,
		Key:     "malformed_token",
		Details: "Cannot authorize the request due to a bad JWT implementation",
	}
	ErrInvalidToken = HTTPError{
		Kind:    KindInvalidToken,
		Code:    http.StatusUnauthorized,
		Key:     "invalid_token",
		Details: "Cannot authorize the request because the given JWT is invalid",
	}
	ErrInvalidCredentials = HTTPError{
		Kind:    KindInvalidCredentials,
		Code:    http.StatusUnauthorized,
		Key:     "invalid_credentials",
		Details: "The given credentials do not match any account",
	}
)
