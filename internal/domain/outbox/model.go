package outbox

import (
	"errors"
	"time"
)

// Status constants for outbox entry lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// ActionTypeEmail marks an email that could not be delivered when first sent.
const ActionTypeEmail = "email"

// DefaultMaxAttempts bounds retries of a single entry.
const DefaultMaxAttempts = 5

// Domain errors.
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
)

// Entry is a deferred side effect waiting to be replayed.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string // JSON payload for replay
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	ExternalID      string // provider message ID once delivered
	ErrorMessage    string
}

// New returns a pending entry.
// PRE: id, actionType and payload are non-empty
// POST: Status is pending with DefaultMaxAttempts
func New(id, actionType, payload string, now time.Time) Entry {
	return Entry{
		ID:          id,
		ActionType:  actionType,
		Payload:     payload,
		Status:      StatusPending,
		MaxAttempts: DefaultMaxAttempts,
		CreatedAt:   now,
	}
}

// Validate checks that the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	if e.MaxAttempts <= 0 {
		return errors.New("max_attempts must be positive")
	}
	return nil
}

// IsTerminal returns true once the entry will not be attempted again.
func (e Entry) IsTerminal() bool {
	return e.Status == StatusDone || e.Status == StatusAbandoned || e.Status == StatusFailed
}

// NextRetryDelay is 2^attempts * baseDelay, capped at maxDelay.
func (e Entry) NextRetryDelay(baseDelay, maxDelay time.Duration) time.Duration {
	if e.Attempts >= 30 {
		return maxDelay
	}
	delay := baseDelay * (1 << e.Attempts)
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// Due reports whether the backoff since the last attempt has elapsed.
// PRE: none
// POST: Never-attempted, non-terminal entries are always due
func (e Entry) Due(now time.Time, baseDelay, maxDelay time.Duration) bool {
	if e.IsTerminal() {
		return false
	}
	if e.LastAttemptedAt.IsZero() {
		return true
	}
	return now.Sub(e.LastAttemptedAt) >= e.NextRetryDelay(baseDelay, maxDelay)
}

// MarkAttempt records the start of an attempt.
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess records delivery.
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed records a failed attempt; the entry fails permanently once attempts are exhausted.
// PRE: MarkAttempt was called for this attempt
// POST: ErrorMessage set; Status is failed iff Attempts >= MaxAttempts
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// MarkAbandoned stops further attempts.
func (e *Entry) MarkAbandoned() {
	e.Status = StatusAbandoned
}
