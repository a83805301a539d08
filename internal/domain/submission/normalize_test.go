package submission_test

import (
	"testing"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// TestNormalize tests diacritic, case and whitespace folding.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "vietnamese diacritics", in: "Nguyễn Văn A", want: "nguyen van a"},
		{name: "plain ascii", in: "nguyen van a", want: "nguyen van a"},
		{name: "d with stroke upper", in: "Đà Nẵng", want: "da nang"},
		{name: "d with stroke lower", in: "đinh thị hoa", want: "dinh thi hoa"},
		{name: "whitespace runs", in: "  Trần   \tThị\nBích  ", want: "tran thi bich"},
		{name: "decomposed input", in: "Nguye\u0302\u0303n", want: "nguyen"},
		{name: "empty", in: "", want: ""},
		{name: "only spaces", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := submission.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestNormalize_Idempotent tests that normalizing twice changes nothing.
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Nguyễn Văn A",
		"ĐẶNG   Thị  Ánh",
		"Lê Hoàng Phúc ",
		"Ắ ằ ẳ ẵ ặ",
		"İstanbul Öz",
		"",
	}
	for _, s := range inputs {
		once := submission.Normalize(s)
		twice := submission.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

// TestNormalize_DiacriticInsensitive tests that accented and plain spellings share a key.
func TestNormalize_DiacriticInsensitive(t *testing.T) {
	if submission.Normalize("Nguyễn Văn A") != submission.Normalize("nguyen van a") {
		t.Error("expected accented and plain names to normalize equally")
	}
	if submission.Normalize("Đà Nẵng") != submission.Normalize("da nang") {
		t.Error("expected Đ to fold to d")
	}
}

// TestExtractClassLabel tests splitting the course detail string.
func TestExtractClassLabel(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		want   string
		wantOK bool
	}{
		{name: "two segments", detail: "X___Y", want: "Y", wantOK: true},
		{name: "real course", detail: "Khóa học trực tuyến___Thiết kế Web và lập trình Front-end", want: "Thiết kế Web và lập trình Front-end", wantOK: true},
		{name: "three segments", detail: "A___B___C", want: "B", wantOK: true},
		{name: "empty label", detail: "Cat___", want: "", wantOK: true},
		{name: "no separator", detail: "NoSeparator", want: "", wantOK: false},
		{name: "short separator", detail: "A__B", want: "", wantOK: false},
		{name: "empty", detail: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := submission.ExtractClassLabel(tt.detail)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractClassLabel(%q) = (%q, %v), want (%q, %v)", tt.detail, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestClassLabelOf tests stored values with and without a course prefix.
func TestClassLabelOf(t *testing.T) {
	if got := submission.ClassLabelOf("Front-end"); got != "Front-end" {
		t.Errorf("expected bare label kept, got %q", got)
	}
	if got := submission.ClassLabelOf("Cat___Front-end"); got != "Front-end" {
		t.Errorf("expected extracted label, got %q", got)
	}
}
