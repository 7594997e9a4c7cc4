package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return newRule(field, "validation.required", "field is required", nil, func() bool {
		return strings.TrimSpace(value) != ""
	})
}

// RequiredValue validates that a comparable value is not its zero value.
func RequiredValue[T comparable](field string, value T) Rule {
	var zero T
	return newRule(field, "validation.required", "field is required", nil, func() bool {
		return value != zero
	})
}

// MaxBytes limits the encoded length of value, e.g. bcrypt's 72-byte input.
func MaxBytes(field, value string, max int) Rule {
	return newRule(field, "validation.max_bytes",
		fmt.Sprintf("must be at most %d bytes long", max),
		map[string]any{"max": max},
		func() bool { return len(value) <= max },
	)
}

// MinLen counts runes, not bytes.
func MinLen(field, value string, min int) Rule {
	return newRule(field, "validation.min_length",
		fmt.Sprintf("must be at least %d characters long", min),
		map[string]any{"min": min},
		func() bool { return utf8.RuneCountInString(value) >= min },
	)
}

func MaxLen(field, value string, max int) Rule {
	return newRule(field, "validation.max_length",
		fmt.Sprintf("must be at most %d characters long", max),
		map[string]any{"max": max},
		func() bool { return utf8.RuneCountInString(value) <= max },
	)
}

func Min[T Numeric](field string, value, min T) Rule {
	return newRule(field, "validation.min",
		fmt.Sprintf("must be at least %v", min),
		map[string]any{"min": min},
		func() bool { return value >= min },
	)
}

func Max[T Numeric](field string, value, max T) Rule {
	return newRule(field, "validation.max",
		fmt.Sprintf("must be at most %v", max),
		map[string]any{"max": max},
		func() bool { return value <= max },
	)
}

func OneOf[T comparable](field string, value T, options ...T) Rule {
	return newRule(field, "validation.one_of",
		fmt.Sprintf("must be one of %v", options),
		map[string]any{"options": options},
		func() bool { return slices.Contains(options, value) },
	)
}

// Email accepts a bare address with a dotted domain.
func Email(field, value string) Rule {
	return newRule(field, "validation.email", "must be a valid email address", nil, func() bool {
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != strings.TrimSpace(value) {
			return false
		}
		local, domain, ok := strings.Cut(addr.Address, "@")
		if !ok || local == "" {
			return false
		}
		return strings.Contains(domain, ".") &&
			!strings.HasPrefix(domain, ".") &&
			!strings.HasSuffix(domain, ".")
	})
}

func UUID(field, value string) Rule {
	return newRule(field, "validation.uuid", "must be a valid UUID", nil, func() bool {
		_, err := uuid.Parse(value)
		return err == nil
	})
}

// Password requires at least min characters with upper, lower case letters and a digit.
func Password(field, value string, min int) Rule {
	return newRule(field, "validation.password",
		fmt.Sprintf("must be at least %d characters and contain upper and lower case letters and a digit", min),
		map[string]any{"min": min},
		func() bool {
			if utf8.RuneCountInString(value) < min {
				return false
			}
			var upper, lower, digit bool
			for _, r := range value {
				switch {
				case unicode.IsUpper(r):
					upper = true
				case unicode.IsLower(r):
					lower = true
				case unicode.IsDigit(r):
					digit = true
				}
			}
			return upper && lower && digit
		},
	)
}
