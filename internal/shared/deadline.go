package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultDeadline is the release target used when neither storage nor config provides one.
var DefaultDeadline = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

// localLayouts are wall-clock forms without an offset; they are read in the caller's location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDeadline turns user input into an absolute UTC instant.
//
// Accepted forms are RFC 3339 (fractional seconds optional), unix seconds, and the
// offset-less layouts in localLayouts, which are interpreted in loc.
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDeadline)
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDeadline, s)
}
