package lead

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// Pipeline statuses a lead moves through. A new lead starts at StatusLead.
const (
	StatusLead       = "Lead"
	StatusEngaging   = "Engaging"
	StatusRegistered = "Registered"
	StatusDroppedOut = "Dropped_Out"
	StatusArchived   = "Archived"
)

// Statuses lists every valid pipeline status in lifecycle order.
var Statuses = []string{StatusLead, StatusEngaging, StatusRegistered, StatusDroppedOut, StatusArchived}

// MaxNotesLength caps the counselor note attached to a status change.
const MaxNotesLength = 1000

// Notification consent values stored on a lead.
const (
	ConsentAgree = "Agree"
	ConsentOther = "Other"
)

// Placeholder stored for optional fields the student left blank.
const Null = "Null"

// HighSchoolGraduated replaces the school name for students past high school.
const HighSchoolGraduated = "Đã tốt nghiệp"

// Form labels the registration site sends.
const (
	formConsentAgree = "Đồng ý"
	formConsentOther = "Khác"
)

// educationLevelsWithoutSchool hold the education levels whose school name is not recorded.
var educationLevelsWithoutSchool = []string{"Học sinh THPT", "Sinh viên"}

// Domain errors.
var (
	ErrEmptyName     = errors.New("student name is required")
	ErrInvalidEmail  = errors.New("a valid email is required")
	ErrEmptyPhone    = errors.New("phone number is required")
	ErrNotFound      = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid lead status")
	ErrNotesTooLong  = errors.New("status notes are too long")
)

// Form is the consulting-interest form as posted by the registration site.
type Form struct {
	StudentName                         string `json:"student_name"`
	Email                               string `json:"email"`
	PhoneNumber                         string `json:"phone_number"`
	ZaloPhone                           string `json:"zalo_phone"`
	LinkFacebook                        string `json:"link_facebook"`
	DateOfBirth                         string `json:"date_of_birth"`
	Gender                              string `json:"gender"`
	CurrentEducationLevel               string `json:"current_education_level"`
	OtherEducationLevelDescription      string `json:"other_education_level_description"`
	HighSchoolName                      string `json:"high_school_name"`
	City                                string `json:"city"`
	Source                              string `json:"source"`
	OtherSourceDescription              string `json:"other_source_description"`
	NotificationConsent                 string `json:"notification_consent"`
	OtherNotificationConsentDescription string `json:"other_notification_consent_description"`
	InterestedCoursesDetails            string `json:"interested_courses_details"`
	RegistrationDate                    string `json:"registration_date"`
}

// Lead is a prospective student captured from the consulting form.
type Lead struct {
	ID                                  string    `json:"id"`
	StudentName                         string    `json:"student_name"`
	Email                               string    `json:"email"`
	PhoneNumber                         string    `json:"phone_number"`
	ZaloPhone                           string    `json:"zalo_phone"`
	LinkFacebook                        string    `json:"link_facebook"`
	DateOfBirth                         string    `json:"date_of_birth"`
	Gender                              string    `json:"gender"`
	CurrentEducationLevel               string    `json:"current_education_level"`
	OtherEducationLevelDescription      string    `json:"other_education_level_description"`
	HighSchoolName                      string    `json:"high_school_name"`
	City                                string    `json:"city"`
	Source                              string    `json:"source"`
	OtherSourceDescription              string    `json:"other_source_description"`
	NotificationConsent                 string    `json:"notification_consent"`
	OtherNotificationConsentDescription string    `json:"other_notification_consent_description"`
	InterestedCoursesDetails            string    `json:"interested_courses_details"`
	CurrentStatus                       string    `json:"current_status"`
	RegistrationDate                    string    `json:"registration_date"`
	DedupeKey                           string    `json:"-"`
	CreatedAt                           time.Time `json:"created_at"`
}

// FromForm maps a submitted form onto a new lead.
// PRE: id is non-empty; now is in the registration site's time zone
// POST: CurrentStatus is StatusLead; blank optional fields hold Null; a blank
// RegistrationDate is stamped with now
func FromForm(f Form, id string, now time.Time) Lead {
	l := Lead{
		ID:                                  id,
		StudentName:                         strings.TrimSpace(f.StudentName),
		Email:                               strings.TrimSpace(f.Email),
		PhoneNumber:                         strings.TrimSpace(f.PhoneNumber),
		ZaloPhone:                           strings.TrimSpace(f.ZaloPhone),
		LinkFacebook:                        orNull(f.LinkFacebook),
		DateOfBirth:                         f.DateOfBirth,
		Gender:                              f.Gender,
		CurrentEducationLevel:               f.CurrentEducationLevel,
		OtherEducationLevelDescription:      f.OtherEducationLevelDescription,
		HighSchoolName:                      highSchoolName(f.CurrentEducationLevel, f.HighSchoolName),
		City:                                orNull(f.City),
		Source:                              f.Source,
		OtherSourceDescription:              f.OtherSourceDescription,
		NotificationConsent:                 consent(f.NotificationConsent),
		OtherNotificationConsentDescription: f.OtherNotificationConsentDescription,
		InterestedCoursesDetails:            f.InterestedCoursesDetails,
		CurrentStatus:                       StatusLead,
		RegistrationDate:                    f.RegistrationDate,
		CreatedAt:                           now,
	}
	if l.ZaloPhone == "" {
		l.ZaloPhone = l.PhoneNumber
	}
	if strings.TrimSpace(l.RegistrationDate) == "" {
		l.RegistrationDate = submission.FormatTimestamp(now)
	}
	return l
}

func orNull(s string) string {
	if strings.TrimSpace(s) == "" {
		return Null
	}
	return s
}

func highSchoolName(educationLevel, school string) string {
	for _, level := range educationLevelsWithoutSchool {
		if strings.Contains(educationLevel, level) {
			return HighSchoolGraduated
		}
	}
	return orNull(school)
}

func consent(v string) string {
	switch v {
	case formConsentAgree:
		return ConsentAgree
	case formConsentOther:
		return ConsentOther
	}
	return ""
}

// Validate checks the fields a counselor needs to reach the student.
// PRE: Lead struct is populated
// POST: Returns nil if valid, error otherwise
func (l Lead) Validate() error {
	if l.StudentName == "" {
		return ErrEmptyName
	}
	if l.Email == "" || !strings.Contains(l.Email, "@") {
		return ErrInvalidEmail
	}
	if l.PhoneNumber == "" {
		return ErrEmptyPhone
	}
	return nil
}

// ClassLabel returns the class the student asked about, or the whole detail
// string when it has no course prefix.
func (l Lead) ClassLabel() string {
	return submission.ClassLabelOf(l.InterestedCoursesDetails)
}

// ParseStatus returns the pipeline status named by s.
// PRE: none
// POST: Returns ErrInvalidStatus unless s is one of Statuses
func ParseStatus(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, status := range Statuses {
		if s == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// StatusChange is one entry of a lead's status history.
type StatusChange struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Notes     string    `json:"notes"`
	ChangedAt time.Time `json:"changed_at"`
}

// Validate checks the requested transition before it is stored.
// PRE: StatusChange struct is populated
// POST: Returns nil if valid, error otherwise
func (c StatusChange) Validate() error {
	if c.LeadID == "" {
		return errors.New("lead id is required")
	}
	if _, err := ParseStatus(c.NewStatus); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if c.ChangedAt.IsZero() {
		return errors.New("changed_at must be set")
	}
	return nil
}
