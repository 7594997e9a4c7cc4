// Package validator provides small, composable validation rules and typed schemas.
//
// A Rule pairs a Check function with translation-friendly error metadata.
// Apply evaluates rules and aggregates failures into ValidationErrors, which
// satisfies the error interface:
//
//	err := validator.Apply(
//		validator.Required("name", req.Name),
//		validator.Email("email", req.Email),
//	)
//
// A Schema decodes a generic map (request body, query or path parameters) into a
// typed value. Struct builds one from json tags plus a rule set:
//
//	var schema = validator.Struct(func(r CreateUser) []validator.Rule {
//		return []validator.Rule{validator.Email("email", r.Email)}
//	})
//	user, err := schema.Parse(map[string]any{"email": "a@b.co"})
package validator
