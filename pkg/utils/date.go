package utils

import (
	"time"
)

// LoadLocation resolves a zone name, falling back to UTC.
func LoadLocation(zone string) *time.Location {
	if zone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PrettyDate formats t for operator messages, e.g. "Mon, 02 Jan 2006 15:04 MST".
func PrettyDate(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006 15:04 MST")
}
