package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/email"
	domain "github.com/PhuD203/Admissions-consultant-sub001/internal/domain/outbox"
)

// OutboxStoreForProcessor defines the store interface needed by OutboxProcessor.
type OutboxStoreForProcessor interface {
	Save(ctx context.Context, e domain.Entry) error
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
}

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the external action with the given payload.
	// Returns the external ID (e.g., provider message ID) and any error.
	Execute(ctx context.Context, payload string) (string, error)
}

// OutboxProcessorConfig tunes retry pacing.
type OutboxProcessorConfig struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	BatchSize int
}

// DefaultOutboxProcessorConfig returns 30s base delay, 1h cap and batches of 20.
func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{BaseDelay: 30 * time.Second, MaxDelay: time.Hour, BatchSize: 20}
}

// OutboxProcessor handles retrying failed external actions.
type OutboxProcessor struct {
	store     OutboxStoreForProcessor
	executors map[string]ActionExecutor
	cfg       OutboxProcessorConfig
	now       func() time.Time
}

// NewOutboxProcessor creates a new outbox processor.
func NewOutboxProcessor(store OutboxStoreForProcessor, executors map[string]ActionExecutor, cfg OutboxProcessorConfig) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ProcessPending processes pending outbox entries whose backoff has elapsed.
// PRE: Context is valid
// POST: Due entries are attempted once and saved with their new status
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListPending(ctx, p.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("list pending outbox entries: %w", err)
	}

	for _, entry := range entries {
		if err := p.processEntry(ctx, entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err.Error())
		}
	}

	return nil
}

// processEntry processes a single outbox entry.
func (p *OutboxProcessor) processEntry(ctx context.Context, entry domain.Entry) error {
	now := p.now()
	if !entry.Due(now, p.cfg.BaseDelay, p.cfg.MaxDelay) {
		return nil // Not ready to retry yet
	}

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.ErrorMessage = "no executor registered for action type: " + entry.ActionType
		entry.MarkAbandoned()
		return p.store.Save(ctx, entry)
	}

	entry.MarkAttempt(now)
	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "status", entry.Status, "error", err.Error())
	} else {
		entry.MarkSuccess(externalID)
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}

	return p.store.Save(ctx, entry)
}

// --- Email Executor ---

// EmailPayload is the JSON structure of a deferred email.
type EmailPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html,omitempty"`
}

// EmailExecutor replays deferred emails through a Sender.
type EmailExecutor struct {
	Sender emailAdapter.Sender
}

// Execute sends an email from the payload.
// PRE: payload is valid JSON matching EmailPayload
// POST: email sent via configured sender, returns message ID
// INVARIANT: outbox entry status managed by caller
func (e *EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p EmailPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	if len(p.To) == 0 {
		return "", errors.New("email payload has no recipients")
	}

	res, err := e.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      p.To,
		Subject: p.Subject,
		Text:    p.Text,
		HTML:    p.HTML,
	})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}

// --- Background Worker ---

// RunBackgroundWorker processes pending outbox entries every interval until ctx is done.
// PRE: interval > 0
// POST: Returns nil once ctx is cancelled
func RunBackgroundWorker(ctx context.Context, processor *OutboxProcessor, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := processor.ProcessPending(runCtx); err != nil {
				slog.Error("outbox_background_process_failed", "error", err.Error())
			}
			cancel()
		case <-ctx.Done():
			slog.Info("outbox_background_worker_stopped")
			return nil
		}
	}
}
