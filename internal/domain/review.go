package domain

import (
	"context"
	"time"
)

// Review is an attendee-to-host rating bound to event participation.
// At most one review exists per (reviewer, host) pair.
type Review struct {
	ID         string    `json:"id"`
	ReviewerID string    `json:"reviewer_id"`
	HostID     string    `json:"host_id"`
	EventID    string    `json:"event_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReviewWithNames is a review joined with reviewer and host summaries.
type ReviewWithNames struct {
	Review   *Review      `json:"review"`
	Reviewer *HostSummary `json:"reviewer"`
	Host     *HostSummary `json:"host"`
}

// ReviewRepository defines the interface for review storage.
type ReviewRepository interface {
	// Create inserts the review. Returns ErrConflict when the reviewer
	// already reviewed this host.
	Create(ctx context.Context, rev *Review) error
	ListAll(ctx context.Context) ([]*ReviewWithNames, error)
	ListByHostID(ctx context.Context, hostID string) ([]*ReviewWithNames, error)
}

// ReviewService defines review business logic.
type ReviewService interface {
	CreateReview(ctx context.Context, caller Identity, rev *Review) (*Review, error)
	ListReviews(ctx context.Context) ([]*ReviewWithNames, error)
	ListHostReviews(ctx context.Context, hostID string) ([]*ReviewWithNames, error)
}
