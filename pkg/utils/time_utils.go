package utils

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts an RFC 3339 timestamp or a plain calendar date. Plain
// dates are interpreted as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// FormatDisplayDate renders a date for emails and summaries, e.g. "Mar 4, 2026".
func FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Jan 2, 2006")
}

func FromUnixSeconds(t int64) *time.Time {
	if t <= 0 {
		return nil
	}
	v := time.Unix(t, 0).UTC()
	return &v
}
