package lead_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/lead"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

var createdAt = time.Date(2025, 6, 17, 1, 52, 16, 0, time.UTC)

func validForm() lead.Form {
	return lead.Form{
		StudentName:              "Trần Thị Bích",
		Email:                    "bich@example.com",
		PhoneNumber:              "0901234567",
		CurrentEducationLevel:    "Đã tốt nghiệp THPT",
		HighSchoolName:           "THPT Châu Văn Liêm",
		City:                     "Cần Thơ",
		Source:                   "Facebook",
		NotificationConsent:      "Đồng ý",
		InterestedCoursesDetails: "Khóa học trực tuyến___Thiết kế Web và lập trình Front-end",
		RegistrationDate:         "01:52:16 17/6/2025",
	}
}

// TestFromForm_MapsFields tests the intake mapping of a complete form.
func TestFromForm_MapsFields(t *testing.T) {
	got := lead.FromForm(validForm(), "lead-1", createdAt)

	want := lead.Lead{
		ID:                       "lead-1",
		StudentName:              "Trần Thị Bích",
		Email:                    "bich@example.com",
		PhoneNumber:              "0901234567",
		ZaloPhone:                "0901234567",
		LinkFacebook:             lead.Null,
		CurrentEducationLevel:    "Đã tốt nghiệp THPT",
		HighSchoolName:           "THPT Châu Văn Liêm",
		City:                     "Cần Thơ",
		Source:                   "Facebook",
		NotificationConsent:      lead.ConsentAgree,
		InterestedCoursesDetails: "Khóa học trực tuyến___Thiết kế Web và lập trình Front-end",
		CurrentStatus:            lead.StatusLead,
		RegistrationDate:         "01:52:16 17/6/2025",
		CreatedAt:                createdAt,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromForm() mismatch (-want +got):\n%s", diff)
	}
}

// TestFromForm_HighSchoolName tests the education level rules.
func TestFromForm_HighSchoolName(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		school string
		want   string
	}{
		{name: "high school student", level: "Học sinh THPT", school: "THPT Lý Tự Trọng", want: lead.HighSchoolGraduated},
		{name: "university student", level: "Sinh viên", school: "", want: lead.HighSchoolGraduated},
		{name: "other level keeps school", level: "Đã đi làm", school: "THPT Nguyễn Việt Hồng", want: "THPT Nguyễn Việt Hồng"},
		{name: "other level blank school", level: "Đã đi làm", school: "", want: lead.Null},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			f.CurrentEducationLevel = tt.level
			f.HighSchoolName = tt.school
			if got := lead.FromForm(f, "id", createdAt).HighSchoolName; got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestFromForm_Consent tests the consent label mapping.
func TestFromForm_Consent(t *testing.T) {
	for in, want := range map[string]string{
		"Đồng ý": lead.ConsentAgree,
		"Khác":   lead.ConsentOther,
		"":       "",
		"Không":  "",
	} {
		f := validForm()
		f.NotificationConsent = in
		if got := lead.FromForm(f, "id", createdAt).NotificationConsent; got != want {
			t.Errorf("consent %q: expected %q, got %q", in, want, got)
		}
	}
}

// TestFromForm_ZaloPhone tests that an explicit Zalo number is kept.
func TestFromForm_ZaloPhone(t *testing.T) {
	f := validForm()
	f.ZaloPhone = "0987654321"
	if got := lead.FromForm(f, "id", createdAt).ZaloPhone; got != "0987654321" {
		t.Errorf("expected explicit zalo phone, got %q", got)
	}
}

// TestLead_Validate tests required contact fields.
func TestLead_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *lead.Form)
		wantErr error
	}{
		{name: "valid", mutate: func(f *lead.Form) {}, wantErr: nil},
		{name: "blank name", mutate: func(f *lead.Form) { f.StudentName = "  " }, wantErr: lead.ErrEmptyName},
		{name: "missing email", mutate: func(f *lead.Form) { f.Email = "" }, wantErr: lead.ErrInvalidEmail},
		{name: "email without at", mutate: func(f *lead.Form) { f.Email = "bich.example.com" }, wantErr: lead.ErrInvalidEmail},
		{name: "missing phone", mutate: func(f *lead.Form) { f.PhoneNumber = "" }, wantErr: lead.ErrEmptyPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			err := lead.FromForm(f, "id", createdAt).Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLead_ClassLabel tests the class shown in logs and notices.
func TestLead_ClassLabel(t *testing.T) {
	l := lead.FromForm(validForm(), "lead-1", createdAt)
	if l.ClassLabel() != "Thiết kế Web và lập trình Front-end" {
		t.Errorf("unexpected class label %q", l.ClassLabel())
	}
}

// TestFromForm_StampsRegistrationDate tests that a blank date is filled so the
// lead can still block a resubmission inside the window.
func TestFromForm_StampsRegistrationDate(t *testing.T) {
	f := validForm()
	f.RegistrationDate = "  "
	l := lead.FromForm(f, "lead-1", createdAt)

	if l.RegistrationDate != "01:52:16 17/06/2025" {
		t.Errorf("RegistrationDate = %q, want %q", l.RegistrationDate, "01:52:16 17/06/2025")
	}
	got, err := submission.ParseTimestamp(l.RegistrationDate, time.UTC)
	if err != nil {
		t.Fatalf("stamped date does not parse: %v", err)
	}
	if !got.Equal(createdAt) {
		t.Errorf("parsed %v, want %v", got, createdAt)
	}

	if kept := lead.FromForm(validForm(), "lead-2", createdAt.AddDate(0, 1, 0)).RegistrationDate; kept != "01:52:16 17/6/2025" {
		t.Errorf("submitted date must be kept, got %q", kept)
	}
}

// TestParseStatus tests the pipeline status enum.
func TestParseStatus(t *testing.T) {
	for _, s := range lead.Statuses {
		if got, err := lead.ParseStatus(s); err != nil || got != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, got, err)
		}
	}
	if got, _ := lead.ParseStatus(" Engaging "); got != lead.StatusEngaging {
		t.Errorf("surrounding spaces not trimmed, got %q", got)
	}
	for _, s := range []string{"", "engaging", "Dropped Out", "Deleted"} {
		if _, err := lead.ParseStatus(s); !errors.Is(err, lead.ErrInvalidStatus) {
			t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidStatus", s, err)
		}
	}
}

// TestStatusChange_Validate tests the checks on a status transition.
func TestStatusChange_Validate(t *testing.T) {
	valid := lead.StatusChange{LeadID: "lead-1", NewStatus: lead.StatusRegistered, ChangedAt: createdAt}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bad := valid
	bad.NewStatus = "Won"
	if err := bad.Validate(); !errors.Is(err, lead.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	long := valid
	long.Notes = strings.Repeat("ả", lead.MaxNotesLength+1)
	if err := long.Validate(); !errors.Is(err, lead.ErrNotesTooLong) {
		t.Errorf("expected ErrNotesTooLong, got %v", err)
	}
	long.Notes = strings.Repeat("ả", lead.MaxNotesLength)
	if err := long.Validate(); err != nil {
		t.Errorf("notes at the limit must pass, got %v", err)
	}

	noID := valid
	noID.LeadID = ""
	if err := noID.Validate(); err == nil {
		t.Error("expected error for missing lead id")
	}
}
