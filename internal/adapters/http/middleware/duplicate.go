package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// DuplicateMessage is returned in place of the real response when a submission repeats an earlier one.
const DuplicateMessage = "Email đã được gửi"

// maxInspectBytes caps how much of the body is buffered for inspection.
const maxInspectBytes = 1 << 20

// CheckFunc reports whether candidate repeats a still-valid earlier submission.
type CheckFunc func(ctx context.Context, candidate submission.Record) (submission.Verdict, error)

// submissionFields are the form fields the duplicate filter compares.
type submissionFields struct {
	StudentName              string `json:"student_name"`
	Email                    string `json:"email"`
	InterestedCoursesDetails string `json:"interested_courses_details"`
	RegistrationDate         string `json:"registration_date"`
}

// DuplicateCheck short-circuits repeated form submissions with a 200 and DuplicateMessage.
// Any failure (unreadable body, malformed JSON, check error) lets the request through
// untouched; the next handler always sees the full original body.
func DuplicateCheck(check CheckFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			buf, err := io.ReadAll(io.LimitReader(r.Body, maxInspectBytes))
			r.Body = restoreBody(buf, r.Body)
			if err != nil {
				slog.Warn("duplicate_check_failed", "stage", "read_body", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			var fields submissionFields
			if err := json.Unmarshal(buf, &fields); err != nil {
				slog.Debug("duplicate_check_failed", "stage", "decode_body", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			verdict, err := check(r.Context(), submission.Record{
				Name:                   fields.StudentName,
				Email:                  fields.Email,
				InterestedCourseDetail: fields.InterestedCoursesDetails,
				RegisteredAt:           fields.RegistrationDate,
			})
			if err != nil {
				slog.Error("duplicate_check_failed", "stage", "check", "error", err, "request_id", RequestIDFrom(r.Context()))
				next.ServeHTTP(w, r)
				return
			}
			if !verdict.Duplicate {
				next.ServeHTTP(w, r)
				return
			}

			slog.Info("duplicate_submission_suppressed", "matched_id", verdict.MatchedID, "request_id", RequestIDFrom(r.Context()))
			writeJSON(w, http.StatusOK, map[string]string{"message": DuplicateMessage})
		})
	}
}

// restoreBody replays the inspected prefix followed by whatever was not read.
func restoreBody(prefix []byte, rest io.ReadCloser) io.ReadCloser {
	return struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(prefix), rest), rest}
}
