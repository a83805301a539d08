package outbox

import (
	"context"

	domain "github.com/PhuD203/Admissions-consultant-sub001/internal/domain/outbox"
)

// Store defines the interface for outbox entry persistence.
type Store interface {
	// GetByID retrieves an outbox entry by its ID.
	// PRE: id is non-empty
	// POST: Returns the entry or an error if not found
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// Save persists an outbox entry (insert or update).
	// PRE: entry has been validated
	// POST: Entry is persisted
	Save(ctx context.Context, e domain.Entry) error

	// ListPending returns entries that still need processing (pending or retrying).
	// PRE: limit > 0
	// POST: Returns up to limit entries, never-attempted first, then by last attempt
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)

	// CountByStatus returns how many entries are in the given status.
	CountByStatus(ctx context.Context, status string) (int, error)
}
