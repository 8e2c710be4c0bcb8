package helpers

import (
	"net/http"
	"strconv"

	"eventmarket/internal/domain"
)

// List query parameter defaults and limits.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParseListOptions reads page, limit, sortBy, sortOrder, and searchTerm from
// the request query string, clamps page and limit to valid ranges, and returns
// domain.ListOptions. Invalid or missing values fall back to defaults.
func ParseListOptions(r *http.Request) domain.ListOptions {
	q := r.URL.Query()

	page := DefaultPage
	if s := q.Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			page = v
		}
	}
	limit := DefaultLimit
	if s := q.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}
	return domain.ListOptions{
		Page:       page,
		Limit:      limit,
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
		SearchTerm: q.Get("searchTerm"),
	}
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta from the current page, limit, and total count.
// TotalPages is computed as ceiling(total / limit); if limit is 0, TotalPages is 0.
func NewPaginationMeta(page, limit, total int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
