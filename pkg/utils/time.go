package utils

import (
	"strings"
	"time"
)

// DateLayout is the canonical date-only format used across the engine.
const DateLayout = "2006-01-02"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Today returns the current date in canonical date-only form.
func Today() string {
	return time.Now().Format(DateLayout)
}

// TruncateToDate reduces a backend-supplied date value to its date portion.
// The remote service emits both plain dates and full RFC3339 timestamps;
// anything unparseable is returned trimmed but otherwise untouched.
func TruncateToDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(DateLayout)
	}
	// "2024-05-01T10:00:00" without zone shows up too
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.Format(DateLayout)
	}
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}
