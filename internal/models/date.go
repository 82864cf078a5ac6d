package models

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("date is not ISO 8601")

// Accepted ISO 8601 forms: calendar date, or date and time with seconds and zone designator
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseDate parses ISO 8601 string and returns calendar date in UTC
// Time part, if any, is dropped
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
