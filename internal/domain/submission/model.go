package submission

import (
	"errors"
	"strings"
)

// Separator joins the course label and the class label in a course detail string,
// e.g. "Khóa đào tạo ngắn hạn___Thiết kế Web và lập trình Front-end".
const Separator = "___"

// Domain errors.
var (
	// ErrMissingComparableField means the candidate cannot be compared and passes through.
	ErrMissingComparableField = errors.New("missing comparable field")
	ErrInvalidTimestampFormat = errors.New("invalid timestamp format")
)

// Record is a consulting-interest submission as seen by the duplicate filter.
// RegisteredAt is kept in the textual form the registration site sends.
type Record struct {
	ID                     string
	Name                   string
	Email                  string
	InterestedCourseDetail string
	RegisteredAt           string
}

// ExtractClassLabel returns the class label segment of a course detail string.
// PRE: none
// POST: ok is false when detail has fewer than two segments
func ExtractClassLabel(detail string) (label string, ok bool) {
	parts := strings.Split(detail, Separator)
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

// ClassLabelOf returns the class label of a stored course detail. Older rows hold
// the bare class label, newer rows the full "course___class" string.
func ClassLabelOf(stored string) string {
	if label, ok := ExtractClassLabel(stored); ok {
		return label
	}
	return stored
}
