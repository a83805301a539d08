package course

import (
	"context"

	domain "github.com/PhuD203/Admissions-consultant-sub001/internal/domain/course"
)

// Store defines the interface for course catalog persistence.
type Store interface {
	// List returns the catalog in display order.
	List(ctx context.Context) ([]domain.Category, error)

	// Replace swaps the whole catalog atomically.
	// PRE: every category has been validated
	// POST: List returns cats in the given order
	Replace(ctx context.Context, cats []domain.Category) error

	// CountCategories returns the number of stored categories.
	CountCategories(ctx context.Context) (int, error)
}
