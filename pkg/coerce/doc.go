// Package coerce turns loosely typed request values into typed ones.
//
// Query strings and path parameters arrive as strings. Value interprets them
// in a fixed order (undefined, boolean, number, array, date, string) so that
// "true" becomes a bool, "42" a float64, "[1,2]" a slice and
// "2024-03-01" the canonical UTC timestamp "2024-03-01T00:00:00.000Z".
//
// Custom orderings are built with Apply:
//
//	v := coerce.Apply(raw, coerce.Undefined, coerce.String)
package coerce
