package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Interpreter tries to read raw as one specific type.
// It reports false when the value does not belong to that type so the next interpreter runs.
type Interpreter func(raw any) (any, bool)

// DateLayout is the canonical output format for recognised dates.
const DateLayout = "2006-01-02T15:04:05.000Z"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DefaultInterpreters returns the standard chain:
// undefined, boolean, number, array, date, string.
func DefaultInterpreters() []Interpreter {
	return []Interpreter{Undefined, Boolean, Number, Array, Date, String}
}

// Value converts a loosely typed request value using the default chain.
// Values no interpreter claims are returned unchanged.
func Value(raw any) any {
	return Apply(raw, DefaultInterpreters()...)
}

// Apply runs interpreters in order and returns the result of the first one that matches.
func Apply(raw any, interpreters ...Interpreter) any {
	for _, interpret := range interpreters {
		if v, ok := interpret(raw); ok {
			return v
		}
	}
	return raw
}

// Map coerces every value of m into a new map.
func Map(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Value(v)
	}
	return out
}

// Undefined maps the literal string "undefined" to nil.
func Undefined(raw any) (any, bool) {
	if s, ok := raw.(string); ok && s == "undefined" {
		return nil, true
	}
	return nil, false
}

// Boolean accepts native booleans and the strings "true"/"false" in any case.
func Boolean(raw any) (any, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToUpper(v) {
		case "TRUE":
			return true, true
		case "FALSE":
			return false, true
		}
	}
	return nil, false
}

// Number accepts Go numerics and strings holding a finite decimal number.
// All numbers come out as float64.
func Number(raw any) (any, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		return parseNumber(string(v))
	case string:
		return parseNumber(v)
	}
	return nil, false
}

func parseNumber(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// Array passes native slices through and decodes strings that start with "[".
// A string that looks like an array but does not parse becomes nil.
func Array(raw any) (any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		return v, true
	case string:
		if !strings.HasPrefix(v, "[") {
			return nil, false
		}
		var out []any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, true
		}
		return out, true
	}
	return nil, false
}

// Date recognises ISO-8601 date and date-time strings and normalises them to UTC.
func Date(raw any) (any, bool) {
	s, ok := raw.(string)
	if !ok {
		return nil, false
	}
	t, ok := ParseDate(s)
	if !ok {
		return nil, false
	}
	return t.UTC().Format(DateLayout), true
}

// ParseDate parses s using the accepted date layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len("2006-01-02") {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// String passes strings through untouched.
func String(raw any) (any, bool) {
	if s, ok := raw.(string); ok {
		return s, true
	}
	return nil, false
}
