// Package classify derives presentation buckets from raw AI insight fields.
// Everything here is pure and synchronous so buckets can be recomputed on
// every read; no derived value is ever persisted.
package classify

// MatchBucket maps a 0-100 skill-match score to a display bucket. The lower
// edge of each band is inclusive: 80 is the first "high" value and 40 the
// first "medium" value.
func MatchBucket(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 40:
		return "medium"
	default:
		return "low"
	}
}

// Difficulty validates a raw difficulty string against the closed set.
// Anything outside it maps to "unknown" rather than failing.
func Difficulty(raw string) string {
	switch raw {
	case "easy", "medium", "hard":
		return raw
	default:
		return "unknown"
	}
}
