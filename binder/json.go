package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBodySize caps request bodies read by the binders (1 MiB).
const DefaultMaxBodySize int64 = 1 << 20

// JSON decodes a JSON object body into a generic map.
// Numbers are kept as json.Number so large integers survive the round trip.
// An empty body yields an empty map.
//
// Example:
//
//	body, err := binder.JSON(r, binder.DefaultMaxBodySize)
//	if err != nil {
//		return err
//	}
//	email, _ := body["email"].(string)
func JSON(r *http.Request, maxSize int64) (map[string]any, error) {
	data, err := readBody(r, maxSize)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	// Ensure entire body was consumed
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}
	return obj, nil
}

func readBody(r *http.Request, maxSize int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxSize+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("binder: read body: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrBodyTooLarge
	}
	return data, nil
}
