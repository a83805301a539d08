package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	emailAdapter "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/email"
)

// ErrMissingEmailFields is returned when to, subject or text is empty.
var ErrMissingEmailFields = errors.New("to, subject and text are required")

// SendEmailInput carries input for SendEmail. To may hold several comma-separated addresses.
type SendEmailInput struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// SendEmailDeps holds dependencies for SendEmail.
type SendEmailDeps struct {
	Sender emailAdapter.Sender
}

// ExecuteSendEmail sends an ad-hoc email through the configured provider.
// PRE: Sender is non-nil
// POST: Returns ErrMissingEmailFields without sending when a required field is empty
func ExecuteSendEmail(ctx context.Context, input SendEmailInput, deps SendEmailDeps) (emailAdapter.SendResult, error) {
	to := splitAddresses(input.To)
	if len(to) == 0 || strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Text) == "" {
		return emailAdapter.SendResult{}, ErrMissingEmailFields
	}

	res, err := deps.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      to,
		Subject: input.Subject,
		Text:    input.Text,
		HTML:    input.HTML,
	})
	if err != nil {
		return emailAdapter.SendResult{}, fmt.Errorf("send email: %w", err)
	}

	slog.Info("email_event", "event", "email_sent", "message_id", res.MessageID, "recipients", len(to))
	return res, nil
}

func splitAddresses(raw string) []string {
	var out []string
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
