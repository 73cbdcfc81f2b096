package model

// format.go normalizes the loosely formatted catalog columns into typed
// values at the store boundary: rating strings become numbers or nil,
// delimited genre/country columns become string slices, and the JSON
// characters column becomes a slice even when malformed.

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseRating converts a raw rating value into a float pointer.  Empty or
// absent input, non-numeric text and non-finite numbers all yield nil; a
// caller never sees NaN or an empty string.
func ParseRating(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// SplitList turns a comma-delimited column into trimmed non-empty tokens.
// Empty input yields an empty slice, never [""].
func SplitList(raw *string) []string {
	out := []string{}
	if raw == nil {
		return out
	}
	for _, part := range strings.Split(*raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseCharacters decodes the JSON-array characters column.  Absent or
// invalid input yields an empty slice rather than an error; a bad row in
// the dataset must not fail the whole response.
func ParseCharacters(raw *string) []string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return []string{}
	}
	var chars []string
	if err := json.Unmarshal([]byte(*raw), &chars); err != nil {
		return []string{}
	}
	if chars == nil {
		return []string{}
	}
	return chars
}

// BuildRatings assembles the fixed-order ratings list from the raw values
// keyed by source.  Every known source appears exactly once; sources with
// no row carry a nil value.
func BuildRatings(values map[RatingSource]*string) []Rating {
	out := make([]Rating, 0, len(RatingSources))
	for _, src := range RatingSources {
		out = append(out, Rating{Source: string(src), Value: ParseRating(values[src])})
	}
	return out
}
