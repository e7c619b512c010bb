package timehelper

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout matches what browsers emit from Date.prototype.toISOString. All
// stored timestamps use it so string comparison orders them correctly.
const ISOLayout = "2006-01-02T15:04:05.000Z"

var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatISO renders t in UTC using ISOLayout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// NormalizeISO parses a user supplied date and re-renders it with ISOLayout.
// Values without a zone are taken as UTC.
func NormalizeISO(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return FormatISO(t), nil
		}
	}
	return "", fmt.Errorf("%q is not an ISO-8601 date", value)
}
