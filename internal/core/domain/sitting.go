package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical sitting date format.
const DateLayout = "2006-01-02"

// SittingDateTTL is how long a resolved sitting date stays fresh.
const SittingDateTTL = 30 * time.Minute

// LatestSittingKey is the synthetic cache key for the latest date across chambers.
const LatestSittingKey = "latest"

// SittingDateEntry is a cached last-sitting-date lookup.
type SittingDateEntry struct {
	// Key is a chamber name or LatestSittingKey.
	Key       string
	Date      string
	FetchedAt time.Time
}

// Fresh reports whether the entry is still within SittingDateTTL at now.
func (e SittingDateEntry) Fresh(now time.Time) bool {
	return now.Sub(e.FetchedAt) < SittingDateTTL
}

var dateLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
}

// ParseSittingDate parses the date formats the upstream service emits.
func ParseSittingDate(s string) (time.Time, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// NormalizeSittingDate reformats any accepted date as YYYY-MM-DD.
func NormalizeSittingDate(s string) (string, error) {
	t, err := ParseSittingDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
