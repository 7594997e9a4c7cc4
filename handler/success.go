package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
)

// SuccessOption configures the success envelope.
type SuccessOption func(*successConfig)

type successConfig struct {
	status     int
	additional any
}

// WithStatus sets the response status. It must be a 2xx code.
func WithStatus(code int) SuccessOption {
	return func(c *successConfig) {
		c.status = code
	}
}

// WithAdditional merges the fields of v (a map or struct) into the top level of the envelope.
// The envelope keys message, status and data cannot be overridden.
func WithAdditional(v any) SuccessOption {
	return func(c *successConfig) {
		c.additional = v
	}
}

// successEnvelope validates the payload and builds
// {message, status, data, ...additional}.
func successEnvelope(data any, opts ...SuccessOption) (int, map[string]any, error) {
	cfg := successConfig{status: http.StatusOK}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.status < 200 || cfg.status > 299 {
		return 0, nil, fmt.Errorf("%w: got %d", ErrInvalidStatus, cfg.status)
	}
	if !isObject(data, true) {
		return 0, nil, fmt.Errorf("%w: got %T", ErrInvalidData, data)
	}

	envelope := make(map[string]any, 3)
	if cfg.additional != nil {
		if !isObject(cfg.additional, false) {
			return 0, nil, fmt.Errorf("%w: got %T", ErrInvalidAdditionalData, cfg.additional)
		}
		extra, err := toMap(cfg.additional)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: %v", ErrInvalidAdditionalData, err)
		}
		for k, v := range extra {
			envelope[k] = v
		}
	}

	envelope["message"] = http.StatusText(cfg.status)
	envelope["status"] = cfg.status
	envelope["data"] = data

	return cfg.status, envelope, nil
}

// isObject reports whether v is a non-nil map or struct, optionally also slice or array,
// looking through pointers and interfaces.
func isObject(v any, allowList bool) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return true
	case reflect.Map:
		return !rv.IsNil()
	case reflect.Slice:
		return allowList && !rv.IsNil()
	case reflect.Array:
		return allowList
	default:
		return false
	}
}

func toMap(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
