package lead

import (
	"context"

	domain "github.com/PhuD203/Admissions-consultant-sub001/internal/domain/lead"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// Store defines the interface for lead persistence.
type Store interface {
	// GetByID retrieves a lead by its ID.
	// PRE: id is non-empty
	// POST: Returns the lead or an error wrapping lead.ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Lead, error)

	// Save persists a lead (insert or update).
	// PRE: lead has been validated and DedupeKey is set
	// POST: Lead is persisted
	Save(ctx context.Context, l domain.Lead) error

	// ListCandidates returns earlier submissions sharing a dedupe key.
	// PRE: key is non-empty; limit > 0
	// POST: Returns at most limit records, newest first
	ListCandidates(ctx context.Context, key string, limit int) ([]submission.Record, error)

	// List returns leads matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]domain.Lead, error)

	// Count returns the number of leads matching the filter. Limit and Offset are ignored.
	Count(ctx context.Context, filter ListFilter) (int, error)

	// UpdateStatus moves a lead to a new pipeline status and records the change.
	// PRE: change has been validated
	// POST: Returns change with OldStatus filled, or an error wrapping lead.ErrNotFound
	UpdateStatus(ctx context.Context, change domain.StatusChange) (domain.StatusChange, error)

	// ListStatusHistory returns a lead's status changes, oldest first.
	ListStatusHistory(ctx context.Context, leadID string) ([]domain.StatusChange, error)

	// Delete removes a lead and its status history.
	// PRE: id is non-empty
	// POST: Returns an error wrapping lead.ErrNotFound when no lead has the ID
	Delete(ctx context.Context, id string) error
}

// ListFilter narrows List results.
type ListFilter struct {
	Email  string
	Status string
	Limit  int
	Offset int
}
