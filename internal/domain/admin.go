package domain

import "context"

// DashboardCounts holds the aggregate totals on the admin dashboard.
// TotalRevenue is the sum of SUCCESS payment amounts in minor units.
type DashboardCounts struct {
	TotalUsers    int   `json:"total_users"`
	TotalHosts    int   `json:"total_hosts"`
	TotalAdmins   int   `json:"total_admins"`
	TotalEvents   int   `json:"total_events"`
	TotalPayments int   `json:"total_payments"`
	TotalRevenue  int64 `json:"total_revenue"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	Counts         DashboardCounts `json:"stats"`
	RecentPayments []*Payment      `json:"recent_payments"`
	UpcomingEvents []*Event        `json:"upcoming_events"`
}

// StatsRepository computes aggregate statistics over the ledger.
type StatsRepository interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// AdminService defines account management and statistics for administrators.
type AdminService interface {
	ListPersons(ctx context.Context, caller Identity, filter PersonFilter, opts ListOptions) ([]*PersonWithProfile, int, error)
	GetPerson(ctx context.Context, caller Identity, personID string) (*PersonWithProfile, error)
	UpdatePerson(ctx context.Context, caller Identity, personID string, upd ProfileUpdate) (*Profile, error)
	DeletePerson(ctx context.Context, caller Identity, personID string) error
	SoftDeletePerson(ctx context.Context, caller Identity, personID string) error
	Dashboard(ctx context.Context, caller Identity) (*DashboardStats, error)
}
