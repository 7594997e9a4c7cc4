package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups non-nil errors under "errors", keyed by position.
// It returns an empty Attr when every error is nil.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error", or nothing when err is nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// PrincipalID records the authenticated principal under "principal_id".
// Empty ids are dropped.
func PrincipalID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("principal_id", id)
}

// SessionID records a session identifier under "session_id".
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}

// RequestID records the request identifier under "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Stage records an auth pipeline stage under "stage".
func Stage(name string) slog.Attr {
	return slog.String("stage", name)
}

// Route records "METHOD path" under "route".
func Route(method, path string) slog.Attr {
	return slog.String("route", method+" "+path)
}

// Status records an HTTP status code under "status".
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
