package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Schema turns loosely typed request data into a typed value.
// Parse returns ValidationErrors when the data does not satisfy the schema;
// any other error is treated as a server failure.
type Schema[T any] interface {
	Parse(data map[string]any) (T, error)
}

// SchemaFunc adapts a function to the Schema interface.
type SchemaFunc[T any] func(data map[string]any) (T, error)

func (f SchemaFunc[T]) Parse(data map[string]any) (T, error) {
	return f(data)
}

// Validatable is implemented by request types that check themselves.
type Validatable interface {
	Validate() error
}

// Struct builds a schema that decodes data into T through its json tags and then
// applies the rules returned for the decoded value. Each field is decoded on its
// own, so every value that does not fit its field is reported as a
// "validation.type" issue. Rules still run; failures on fields that already have a
// type issue are dropped. If T (or *T) implements Validatable, Validate runs once
// there are no issues.
//
// Example:
//
//	var signup = validator.Struct(func(r SignupRequest) []validator.Rule {
//		return []validator.Rule{
//			validator.Email("email", r.Email),
//			validator.MinLen("password", r.Password, 8),
//		}
//	})
func Struct[T any](rules func(T) []Rule) Schema[T] {
	return SchemaFunc[T](func(data map[string]any) (T, error) {
		var v T

		raw, err := json.Marshal(data)
		if err != nil {
			return v, fmt.Errorf("validator: encode input: %w", err)
		}

		issues, err := decode(raw, &v)
		if err != nil {
			return v, err
		}

		if rules != nil {
			mistyped := slices.Clone(issues)
			for _, e := range ExtractValidationErrors(Apply(rules(v)...)) {
				if !mistyped.Has(e.Field) {
					issues.Add(e)
				}
			}
		}
		if !issues.IsEmpty() {
			return v, issues
		}

		if s, ok := any(&v).(Validatable); ok {
			return v, s.Validate()
		}

		return v, nil
	})
}

var unmarshalerType = reflect.TypeFor[json.Unmarshaler]()

// decode fills dst field by field and collects type mismatches. Types that
// decode themselves, or whose fields cannot be addressed one by one, are decoded
// whole and report at most one mismatch.
func decode(raw []byte, dst any) (ValidationErrors, error) {
	rv := reflect.ValueOf(dst).Elem()
	fields, ok := structFields(rv.Type())
	if !ok || reflect.PointerTo(rv.Type()).Implements(unmarshalerType) {
		return decodeWhole(raw, dst)
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("validator: decode input: %w", err)
	}

	var issues ValidationErrors
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.name] {
			continue
		}
		seen[f.name] = true

		value, ok := lookup(values, f.name)
		if !ok {
			continue
		}
		target := rv.FieldByIndex(f.index).Addr().Interface()
		if err := json.Unmarshal(value, target); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return nil, fmt.Errorf("validator: decode %s: %w", f.name, err)
			}
			issues.Add(typeError(f.name, typeErr))
		}
	}
	return issues, nil
}

func decodeWhole(raw []byte, dst any) (ValidationErrors, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return ValidationErrors{typeError("", typeErr)}, nil
		}
		return nil, fmt.Errorf("validator: decode input: %w", err)
	}
	return nil, nil
}

type structField struct {
	name  string
	index []int
}

// structFields lists the json-visible fields of t, promoted fields included,
// shallowest first. It reports false for non-struct types and for fields the
// per-field decoder cannot handle (",string" options, embedded pointers).
func structFields(t reflect.Type) ([]structField, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	var out []structField
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if slices.Contains(strings.Split(opts, ","), "string") {
			return nil, false
		}
		if f.Anonymous && name == "" {
			if f.Type.Kind() != reflect.Struct {
				if f.Type.Kind() == reflect.Pointer {
					return nil, false
				}
				if !f.IsExported() {
					continue
				}
			} else {
				inner, ok := structFields(f.Type)
				if !ok {
					return nil, false
				}
				for _, in := range inner {
					out = append(out, structField{name: in.name, index: append([]int{i}, in.index...)})
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out = append(out, structField{name: name, index: []int{i}})
	}
	slices.SortStableFunc(out, func(a, b structField) int { return len(a.index) - len(b.index) })
	return out, true
}

// lookup matches keys the way encoding/json does: exact name first, then case-insensitively.
func lookup(values map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	for k, v := range values {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func typeError(field string, err *json.UnmarshalTypeError) ValidationError {
	switch {
	case field == "":
		field = err.Field
	case err.Field != "":
		field += "." + err.Field
	}
	if field == "" {
		field = "_"
	}
	return ValidationError{
		Field:          field,
		Message:        fmt.Sprintf("expected %s, got %s", err.Type.String(), err.Value),
		TranslationKey: "validation.type",
		TranslationValues: map[string]any{
			"field":    field,
			"expected": err.Type.String(),
			"actual":   err.Value,
		},
	}
}
