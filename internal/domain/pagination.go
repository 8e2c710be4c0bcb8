package domain

// ListOptions holds pagination, sorting, and free-text search parameters for
// list queries. SortBy is validated against a per-repository column whitelist.
type ListOptions struct {
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
	SearchTerm string
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * Limit.
func (o ListOptions) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}
