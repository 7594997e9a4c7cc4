package handler

import (
	"github.com/dmitrymomot/apikit/pkg/coerce"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

// Source selects the slice of the request a validator reads.
type Source uint8

const (
	SourceBody Source = iota
	SourceQuery
	SourceParams
	SourceAll
)

// Validator produces the typed request value passed to a handler.
// A returned error short-circuits the pipeline.
type Validator[R any] func(ctx Context) (R, error)

// Validate runs schema against one request source (body by default).
// The body is used as decoded; query and params are coerced first.
// SourceAll is Input.All: every field coerced, the body winning over the query
// string, which wins over path parameters.
//
// Example:
//
//	type createPost struct {
//		Title string `json:"title"`
//	}
//
//	v := handler.Validate(validator.Struct(func(p createPost) []validator.Rule {
//		return []validator.Rule{validator.Required("title", p.Title)}
//	}))
func Validate[R any](schema validator.Schema[R], source ...Source) Validator[R] {
	src := SourceBody
	if len(source) > 0 {
		src = source[0]
	}

	return func(ctx Context) (R, error) {
		data, err := selectSource(ctx.Input(), src)
		if err != nil {
			var zero R
			return zero, err
		}
		return schema.Parse(data)
	}
}

func selectSource(in *Input, src Source) (map[string]any, error) {
	switch src {
	case SourceQuery:
		return coerce.Map(in.Query()), nil
	case SourceParams:
		return coerce.Map(in.Params()), nil
	case SourceAll:
		if _, err := in.Body(); err != nil {
			return nil, err
		}
		return in.All(), nil
	default:
		return in.Body()
	}
}
