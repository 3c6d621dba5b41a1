package util

import (
	"strings"
	"time"
)

// VNDateLayout is the dd/mm/yyyy layout used on Vietnamese business registrations.
const VNDateLayout = "02/01/2006"

// ParseDate tries dd/mm/yyyy, yyyy-mm-dd and RFC3339. Returns (t, true) if any worked.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{VNDateLayout, time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatVNDate renders t as dd/mm/yyyy.
func FormatVNDate(t time.Time) string {
	return t.Format(VNDateLayout)
}

// NormalizeVNDate rewrites any accepted date form as dd/mm/yyyy.
// An unparsable input is returned unchanged with ok=false.
func NormalizeVNDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return s, false
	}
	return FormatVNDate(t), true
}
