package course

import (
	"errors"
	"strings"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// Domain errors.
var (
	ErrEmptyTitle      = errors.New("category title is required")
	ErrEmptyCourseName = errors.New("course name is required")
	ErrEmptyClassName  = errors.New("class name is required")
	ErrSeparatorInName = errors.New("names must not contain the course detail separator")
)

// Class is a concrete class a student can ask about.
type Class struct {
	Name string `json:"name"`
}

// Course groups classes under one programme.
type Course struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Classes []Class `json:"class"`
}

// Category is a top-level grouping shown on the registration form.
type Category struct {
	Title   string   `json:"title"`
	Courses []Course `json:"course"`
}

// Validate checks that every name is present and can be joined into a course detail string.
// PRE: Category struct is populated
// POST: Returns nil if valid, error otherwise
func (c Category) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	for _, co := range c.Courses {
		if strings.TrimSpace(co.Name) == "" {
			return ErrEmptyCourseName
		}
		if strings.Contains(co.Name, submission.Separator) {
			return ErrSeparatorInName
		}
		for _, cl := range co.Classes {
			if strings.TrimSpace(cl.Name) == "" {
				return ErrEmptyClassName
			}
			if strings.Contains(cl.Name, submission.Separator) {
				return ErrSeparatorInName
			}
		}
	}
	return nil
}

// Detail returns the interested_courses_details value the form posts for a class.
func Detail(courseName, className string) string {
	return courseName + submission.Separator + className
}
