package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/email"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/lead"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/outbox"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// LeadStoreForSubmit defines the store interface needed by SubmitForm.
type LeadStoreForSubmit interface {
	Save(ctx context.Context, l lead.Lead) error
}

// OutboxStoreForOrchestrator defines the store interface needed to defer side effects.
type OutboxStoreForOrchestrator interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// Notifier broadcasts a short message to counselors. Delivery is best effort.
type Notifier interface {
	Broadcast(message string)
}

// SubmitFormInput carries input for SubmitForm.
type SubmitFormInput struct {
	Form lead.Form
}

// SubmitFormDeps holds dependencies for SubmitForm. EmailSender, OutboxStore and Notifier are optional.
type SubmitFormDeps struct {
	LeadStore   LeadStoreForSubmit
	EmailSender emailAdapter.Sender
	OutboxStore OutboxStoreForOrchestrator
	Notifier    Notifier
	Policy      submission.Policy
	GenerateID  func() string
	Now         func() time.Time
}

// SubmitFormResult describes what happened to an accepted form.
type SubmitFormResult struct {
	Lead        lead.Lead
	EmailSent   bool
	EmailQueued bool
}

// ExecuteSubmitForm records a consulting form as a new lead and confirms it to the student.
// PRE: LeadStore, GenerateID and Now are non-nil
// POST: Lead persisted with its dedupe key; email failures are queued in the outbox, never returned
func ExecuteSubmitForm(ctx context.Context, input SubmitFormInput, deps SubmitFormDeps) (SubmitFormResult, error) {
	now := deps.Now()
	l := lead.FromForm(input.Form, deps.GenerateID(), deps.Policy.LocalTime(now))
	if err := l.Validate(); err != nil {
		return SubmitFormResult{}, err
	}
	l.DedupeKey = deps.Policy.DedupeKey(l.StudentName, l.Email)

	if err := deps.LeadStore.Save(ctx, l); err != nil {
		return SubmitFormResult{}, fmt.Errorf("save lead: %w", err)
	}
	slog.Info("lead_created", "lead_id", l.ID, "class", l.ClassLabel(), "source", l.Source)

	result := SubmitFormResult{Lead: l}
	if deps.EmailSender != nil {
		result.EmailSent, result.EmailQueued = sendConfirmation(ctx, l, now, deps)
	}

	if deps.Notifier != nil {
		deps.Notifier.Broadcast(leadNotice(l))
	}

	return result, nil
}

// sendConfirmation emails the student and falls back to the outbox when delivery fails.
func sendConfirmation(ctx context.Context, l lead.Lead, now time.Time, deps SubmitFormDeps) (sent, queued bool) {
	course, class := splitCourseDetail(l.InterestedCoursesDetails)
	req, err := emailAdapter.RenderConfirmation(emailAdapter.Confirmation{
		StudentName: l.StudentName,
		Course:      course,
		Class:       class,
	})
	if err != nil {
		slog.Error("email_event", "event", "confirmation_render_failed", "lead_id", l.ID, "error", err)
		return false, false
	}
	req.To = []string{l.Email}

	res, err := deps.EmailSender.Send(ctx, req)
	if err == nil {
		slog.Info("email_event", "event", "confirmation_sent", "lead_id", l.ID, "message_id", res.MessageID)
		return true, false
	}
	slog.Warn("email_event", "event", "confirmation_failed", "lead_id", l.ID, "error", err)

	if deps.OutboxStore == nil {
		return false, false
	}
	payload, err := json.Marshal(EmailPayload{To: req.To, Subject: req.Subject, Text: req.Text, HTML: req.HTML})
	if err != nil {
		slog.Error("email_event", "event", "confirmation_queue_failed", "lead_id", l.ID, "error", err)
		return false, false
	}
	entry := outbox.New(deps.GenerateID(), outbox.ActionTypeEmail, string(payload), now)
	if err := entry.Validate(); err != nil {
		slog.Error("email_event", "event", "confirmation_queue_failed", "lead_id", l.ID, "error", err)
		return false, false
	}
	if err := deps.OutboxStore.Save(ctx, entry); err != nil {
		slog.Error("email_event", "event", "confirmation_queue_failed", "lead_id", l.ID, "error", err)
		return false, false
	}
	slog.Info("email_event", "event", "confirmation_queued", "lead_id", l.ID, "outbox_id", entry.ID)
	return false, true
}

// splitCourseDetail splits "<course>___<class>"; a detail without separator is all course.
func splitCourseDetail(detail string) (course, class string) {
	course, class, _ = strings.Cut(detail, submission.Separator)
	return strings.TrimSpace(course), strings.TrimSpace(class)
}

func leadNotice(l lead.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lead mới: %s <%s>, SĐT %s", l.StudentName, l.Email, l.PhoneNumber)
	if l.InterestedCoursesDetails != "" {
		course, class := splitCourseDetail(l.InterestedCoursesDetails)
		fmt.Fprintf(&b, "\nQuan tâm: %s", course)
		if class != "" {
			fmt.Fprintf(&b, " / %s", class)
		}
	}
	return b.String()
}
