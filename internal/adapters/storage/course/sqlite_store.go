package course

import (
	"context"
	"fmt"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage"
	domain "github.com/PhuD203/Admissions-consultant-sub001/internal/domain/course"
)

// SQLiteStore implements the course Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new course catalog store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// List returns the catalog in display order.
// PRE: none
// POST: Categories, courses and classes keep the order they were saved in
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cc.id, cc.title, c.course_id, c.name, cl.name
		 FROM course_category cc
		 LEFT JOIN course c ON c.category_id = cc.id
		 LEFT JOIN course_class cl ON cl.category_id = c.category_id AND cl.course_id = c.course_id
		 ORDER BY cc.position, c.position, cl.position`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	lastCat := int64(-1)
	for rows.Next() {
		var catID int64
		var title string
		var courseID *int
		var courseName, className *string
		if err := rows.Scan(&catID, &title, &courseID, &courseName, &className); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}

		if catID != lastCat {
			cats = append(cats, domain.Category{Title: title, Courses: []domain.Course{}})
			lastCat = catID
		}
		if courseID == nil {
			continue
		}
		cat := &cats[len(cats)-1]
		if n := len(cat.Courses); n == 0 || cat.Courses[n-1].ID != *courseID {
			cat.Courses = append(cat.Courses, domain.Course{ID: *courseID, Name: *courseName, Classes: []domain.Class{}})
		}
		if className != nil {
			co := &cat.Courses[len(cat.Courses)-1]
			co.Classes = append(co.Classes, domain.Class{Name: *className})
		}
	}
	return cats, rows.Err()
}

// Replace swaps the whole catalog atomically.
// PRE: every category has been validated
// POST: List returns cats in the given order
func (s *SQLiteStore) Replace(ctx context.Context, cats []domain.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM course_class`, `DELETE FROM course`, `DELETE FROM course_category`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
	}

	for ci, cat := range cats {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO course_category (title, position) VALUES (?, ?)`, cat.Title, ci)
		if err != nil {
			return fmt.Errorf("insert category %q: %w", cat.Title, err)
		}
		catID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("category id: %w", err)
		}
		for pi, co := range cat.Courses {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO course (category_id, course_id, name, position) VALUES (?, ?, ?, ?)`,
				catID, co.ID, co.Name, pi); err != nil {
				return fmt.Errorf("insert course %q: %w", co.Name, err)
			}
			for li, cl := range co.Classes {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO course_class (category_id, course_id, name, position) VALUES (?, ?, ?, ?)`,
					catID, co.ID, cl.Name, li); err != nil {
					return fmt.Errorf("insert class %q: %w", cl.Name, err)
				}
			}
		}
	}

	return tx.Commit()
}

// CountCategories returns the number of stored categories.
func (s *SQLiteStore) CountCategories(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM course_category`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}
