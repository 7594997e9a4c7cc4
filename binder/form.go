package binder

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Form decodes an application/x-www-form-urlencoded body into a generic map.
// Single-valued fields become strings, repeated fields become []string.
func Form(r *http.Request, maxSize int64) (map[string]any, error) {
	data, err := readBody(r, maxSize)
	if err != nil {
		return nil, err
	}
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return Values(values), nil
}

// Multipart decodes a multipart/form-data body. Text fields are returned the
// way Form returns them; file parts stay on r.MultipartForm for the handler.
// maxSize caps the whole body and is also the in-memory budget for files.
func Multipart(r *http.Request, maxSize int64) (map[string]any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}, nil
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return Values(r.MultipartForm.Value), nil
}

// Body picks the decoder by Content-Type. A request without a body or
// content type yields an empty map; any other media type is rejected.
func Body(r *http.Request, maxSize int64) (map[string]any, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		if r.ContentLength > 0 {
			return JSON(r, maxSize)
		}
		return map[string]any{}, nil
	}

	// Extract media type without parameters
	mediaType := contentType
	if idx := strings.Index(contentType, ";"); idx != -1 {
		mediaType = strings.TrimSpace(contentType[:idx])
	}

	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return JSON(r, maxSize)
	case mediaType == "application/x-www-form-urlencoded":
		return Form(r, maxSize)
	case mediaType == "multipart/form-data":
		return Multipart(r, maxSize)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
}
