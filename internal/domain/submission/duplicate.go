package submission

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DefaultWindowMonths is how long a registration blocks an identical resubmission.
const DefaultWindowMonths = 3

// Policy parameterises the duplicate predicate.
// WindowMonths == 0 means any earlier match blocks forever.
type Policy struct {
	WindowMonths  int
	FoldEmailCase bool
	Location      *time.Location
}

// DefaultPolicy returns the three-month, exact-email policy evaluated in UTC.
func DefaultPolicy() Policy {
	return Policy{WindowMonths: DefaultWindowMonths, Location: time.UTC}
}

// Verdict is the outcome of evaluating one candidate.
type Verdict struct {
	Duplicate bool
	MatchedID string
	// Skipped is set when the candidate could not be compared and was let through.
	Skipped error
}

func (p Policy) windowed() bool {
	return p.WindowMonths > 0
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Policy) sameEmail(a, b string) bool {
	if p.FoldEmailCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// DedupeKey returns the lookup key stored with every lead and used to fetch
// candidates: a BLAKE2b-256 digest of the normalized name and the email.
// PRE: none
// POST: Records that can match under p share the same key
func (p Policy) DedupeKey(name, email string) string {
	if p.FoldEmailCase {
		email = strings.ToLower(email)
	}
	sum := blake2b.Sum256([]byte(Normalize(name) + "\x00" + email))
	return hex.EncodeToString(sum[:])
}

// LocalTime returns t in the zone registration timestamps are written in.
func (p Policy) LocalTime(t time.Time) time.Time {
	return t.In(p.location())
}

// Comparable checks that candidate carries every field the predicate needs and
// returns the class label and, for a windowed policy, the registration time.
// PRE: none
// POST: err wraps ErrMissingComparableField or ErrInvalidTimestampFormat when the candidate cannot be compared
func (p Policy) Comparable(candidate Record) (label string, asOf time.Time, err error) {
	label, ok := ExtractClassLabel(candidate.InterestedCourseDetail)
	if !ok {
		return "", time.Time{}, fmt.Errorf("%w: interested_courses_details", ErrMissingComparableField)
	}
	if !p.windowed() {
		return label, time.Time{}, nil
	}
	if strings.TrimSpace(candidate.RegisteredAt) == "" {
		return "", time.Time{}, fmt.Errorf("%w: registration_date", ErrMissingComparableField)
	}
	asOf, err = ParseTimestamp(candidate.RegisteredAt, p.location())
	if err != nil {
		return "", time.Time{}, err
	}
	return label, asOf, nil
}

// Evaluate decides whether candidate repeats a still-valid record in existing.
// A record matches when the normalized names, the emails and the class labels are
// equal and, for a windowed policy, its registration has not yet expired on the
// candidate's registration day.
// PRE: none
// POST: Duplicate is false whenever Skipped is set; existing is not modified
func (p Policy) Evaluate(candidate Record, existing []Record) Verdict {
	label, asOf, err := p.Comparable(candidate)
	if err != nil {
		return Verdict{Skipped: err}
	}

	name := Normalize(candidate.Name)
	for _, e := range existing {
		if Normalize(e.Name) != name {
			continue
		}
		if !p.sameEmail(candidate.Email, e.Email) {
			continue
		}
		if ClassLabelOf(e.InterestedCourseDetail) != label {
			continue
		}
		if p.windowed() {
			registeredAt, err := ParseTimestamp(e.RegisteredAt, p.location())
			if err != nil {
				continue
			}
			if !IsWithinValidity(registeredAt, asOf, p.WindowMonths) {
				continue
			}
		}
		return Verdict{Duplicate: true, MatchedID: e.ID}
	}
	return Verdict{}
}

// IsDuplicate reports whether candidate repeats a still-valid record in existing.
func (p Policy) IsDuplicate(candidate Record, existing []Record) bool {
	return p.Evaluate(candidate, existing).Duplicate
}
