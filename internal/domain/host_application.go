package domain

import (
	"context"
	"time"
)

// ApplicationStatus is the review state of a host application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// HostApplication is a USER's request to become a HOST. Approval flips the
// person's role in the same transaction that settles the application.
type HostApplication struct {
	ID            string            `json:"id"`
	ApplicantID   string            `json:"applicant_id"`
	Reason        string            `json:"reason,omitempty"`
	ContactNumber string            `json:"contact_number,omitempty"`
	Address       string            `json:"address,omitempty"`
	Status        ApplicationStatus `json:"status"`
	Feedback      string            `json:"feedback,omitempty"`
	ReviewedBy    *string           `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// HostApplicationRepository defines host application storage.
type HostApplicationRepository interface {
	Create(ctx context.Context, app *HostApplication) error
	GetByID(ctx context.Context, id string) (*HostApplication, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]*HostApplication, error)
	ListPending(ctx context.Context) ([]*HostApplication, error)
	// HasPending reports whether the applicant already has a PENDING
	// application.
	HasPending(ctx context.Context, applicantID string) (bool, error)
	// Review settles a PENDING application in one transaction; approval
	// also flips the applicant's role to HOST. Returns ErrConflict when the
	// application was already processed.
	Review(ctx context.Context, id, reviewerID string, approve bool, feedback string) (*HostApplication, error)
}

// HostApplicationService defines host application business logic.
type HostApplicationService interface {
	Apply(ctx context.Context, caller Identity, reason, contactNumber, address string) (*HostApplication, error)
	MyApplications(ctx context.Context, caller Identity) ([]*HostApplication, error)
	PendingApplications(ctx context.Context, caller Identity) ([]*HostApplication, error)
	ReviewApplication(ctx context.Context, caller Identity, id string, approve bool, feedback string) (*HostApplication, error)
}
