package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/course"
)

// CourseStoreForSeed defines the store interface needed by SeedCourses.
type CourseStoreForSeed interface {
	CountCategories(ctx context.Context) (int, error)
	Replace(ctx context.Context, cats []course.Category) error
}

// SeedCoursesDeps holds dependencies for SeedCourses.
type SeedCoursesDeps struct {
	CourseStore CourseStoreForSeed
	Catalog     []course.Category // nil selects course.DefaultCatalog()
}

// ExecuteSeedCourses stores the course catalog if none exists yet.
// PRE: CourseStore is non-nil
// POST: An existing catalog is left untouched
func ExecuteSeedCourses(ctx context.Context, deps SeedCoursesDeps) error {
	n, err := deps.CourseStore.CountCategories(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil // Already seeded
	}

	catalog := deps.Catalog
	if catalog == nil {
		catalog = course.DefaultCatalog()
	}
	for _, cat := range catalog {
		if err := cat.Validate(); err != nil {
			return fmt.Errorf("seed catalog %q: %w", cat.Title, err)
		}
	}

	if err := deps.CourseStore.Replace(ctx, catalog); err != nil {
		return err
	}

	slog.Info("seed_event", "event", "courses_seeded", "categories", len(catalog))
	return nil
}
