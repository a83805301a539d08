package submission

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the registration site's "HH:mm:ss DD/MM/YYYY" format.
// Day, month and hour may be sent without padding ("01:52:16 17/6/2025").
const TimestampLayout = "15:04:05 2/1/2006"

// fallbackLayouts cover general date strings written by other clients.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a registration timestamp in loc.
// PRE: loc is non-nil
// POST: Returns an error wrapping ErrInvalidTimestampFormat when raw matches no layout
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestampFormat)
	}
	if t, err := time.ParseInLocation(TimestampLayout, s, loc); err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestampFormat, raw)
}

// FormatTimestamp renders t in the registration site's layout, zero-padded.
func FormatTimestamp(t time.Time) string {
	return t.Format("15:04:05 02/01/2006")
}

// midnight truncates t to the start of its day in its own location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ExpiryOf returns the midnight at which a registration stops blocking resubmission.
// Month arithmetic rolls over year ends; a day past the end of the target month
// carries into the next month, as time.AddDate does.
// PRE: windowMonths >= 0
// POST: Result is at midnight in registeredAt's location
func ExpiryOf(registeredAt time.Time, windowMonths int) time.Time {
	return midnight(registeredAt.AddDate(0, windowMonths, 0))
}

// IsWithinValidity reports whether a registration is still valid on asOf's day.
// Both sides are compared at day granularity, so the expiry day itself is outside.
// PRE: windowMonths >= 0
// POST: Returns true iff midnight(asOf) < ExpiryOf(registeredAt, windowMonths)
func IsWithinValidity(registeredAt, asOf time.Time, windowMonths int) bool {
	expiry := ExpiryOf(registeredAt.In(asOf.Location()), windowMonths)
	return midnight(asOf).Before(expiry)
}
