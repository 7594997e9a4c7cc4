package handler

import (
	"errors"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/apikit/binder"
	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/pkg/coerce"
)

// Input is a per-request view over the body, query string and path parameters.
// Each source is decoded at most once.
type Input struct {
	r           *http.Request
	maxBodySize int64

	bodyParsed bool
	body       map[string]any
	bodyErr    error

	query  map[string]any
	params map[string]any
}

// NewInput creates a view over r. A non-positive maxBodySize uses binder.DefaultMaxBodySize.
func NewInput(r *http.Request, maxBodySize int64) *Input {
	return &Input{r: r, maxBodySize: maxBodySize}
}

// Body returns the decoded request body. Decoding failures are reported as
// client errors (400, 413 or 415) joined with the underlying binder error.
func (in *Input) Body() (map[string]any, error) {
	if !in.bodyParsed {
		in.bodyParsed = true
		in.body, in.bodyErr = binder.Body(in.r, in.maxBodySize)
		if in.bodyErr != nil {
			in.bodyErr = errors.Join(bodyHTTPError(in.bodyErr), in.bodyErr)
		}
	}
	return in.body, in.bodyErr
}

// Query returns the raw query parameters.
func (in *Input) Query() map[string]any {
	if in.query == nil {
		in.query = binder.Query(in.r)
	}
	return in.query
}

// Params returns the raw path parameters.
func (in *Input) Params() map[string]any {
	if in.params == nil {
		in.params = binder.PathParams(in.r)
	}
	return in.params
}

// Value returns the coerced value of field, looked up in the body first, then the
// query string, then path parameters. Missing fields yield nil.
func (in *Input) Value(field string) any {
	body, _ := in.Body()
	for _, src := range []map[string]any{body, in.Query(), in.Params()} {
		if v, ok := src[field]; ok && v != nil {
			return coerce.Value(v)
		}
	}
	return nil
}

// Only returns exactly the requested fields with coerced values.
// Fields absent from every source map to nil.
func (in *Input) Only(fields ...string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f] = in.Value(f)
	}
	return out
}

// Fields returns the sorted union of field names across body, query and path parameters.
func (in *Input) Fields() []string {
	body, _ := in.Body()
	seen := make(map[string]struct{})
	for _, src := range []map[string]any{body, in.Query(), in.Params()} {
		for k := range src {
			seen[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// All is Only(Fields()...).
func (in *Input) All() map[string]any {
	return in.Only(in.Fields()...)
}

func bodyHTTPError(err error) error {
	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return core.ErrUnsupportedMediaType.WithDetails(err.Error())
	case errors.Is(err, binder.ErrBodyTooLarge):
		return core.ErrRequestEntityTooLarge.WithDetails(err.Error())
	default:
		return core.ErrBadRequest.WithDetails(err.Error())
	}
}
