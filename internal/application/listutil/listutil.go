package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is the default number of leads per page.
const DefaultPerPage = 20

// MaxPerPage caps per_page so a single request cannot dump the whole table.
const MaxPerPage = 200

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// FilterParams carries exact-match filters (e.g. status=Lead).
type FilterParams map[string]string

// PageInfo carries pagination metadata returned alongside a list.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: 1 <= Page; 1 <= PerPage <= MaxPerPage
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	switch {
	case perPage < 1:
		perPage = DefaultPerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseFilterParams extracts the named filters from URL query values.
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns only recognised, non-blank keys, trimmed
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			fp[key] = v
		}
	}
	return fp
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1; Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the SQL OFFSET for the current page.
// PRE: PageInfo is valid
// POST: Returns (Page-1) * PerPage
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}
