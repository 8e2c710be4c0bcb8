package domain

import (
	"context"
	"time"
)

// JoinStatus is the participation state for one (event, attendee) pair.
type JoinStatus string

const (
	JoinPending  JoinStatus = "PENDING"
	JoinAccepted JoinStatus = "ACCEPTED"
	JoinRejected JoinStatus = "REJECTED"
)

// Participant links one event to one attendee. At most one row exists per
// (event, attendee) pair. A participant with Paid=false on a non-zero-fee
// event is never ACCEPTED.
type Participant struct {
	ID         string     `json:"id"`
	EventID    string     `json:"event_id"`
	AttendeeID string     `json:"attendee_id"`
	Status     JoinStatus `json:"status"`
	Paid       bool       `json:"paid"`
	PaymentID  *string    `json:"payment_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// JoinResult is returned from a successful join. CheckoutURL is empty for
// zero-fee events (the participant is accepted immediately).
type JoinResult struct {
	Participant *Participant `json:"participant"`
	Payment     *Payment     `json:"payment,omitempty"`
	CheckoutURL string       `json:"checkout_url,omitempty"`
}

// LeaveResult reports the outcome of leaving an event. RefundRequested flags
// that a refund is owed; execution is delegated to a collaborator and is not
// performed here.
type LeaveResult struct {
	RefundRequested bool `json:"refund_requested"`
}

// PaidParticipation is an attendee's paid event with its payment and host.
type PaidParticipation struct {
	Participant *Participant `json:"participant"`
	Event       *Event       `json:"event"`
	Payment     *Payment     `json:"payment,omitempty"`
	Host        *HostSummary `json:"host,omitempty"`
}

// ParticipantRepository defines read and delete access to participant rows.
// Writes that must be transactional with payments go through LedgerStore.
type ParticipantRepository interface {
	GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*Participant, error)
	GetByID(ctx context.Context, id string) (*Participant, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Participant, error)
	ListPaidByAttendee(ctx context.Context, attendeeID string) ([]*PaidParticipation, error)
	// CountActive returns the number of PENDING plus ACCEPTED participants.
	CountActive(ctx context.Context, eventID string) (int, error)
	// HasAcceptedForHost reports whether the attendee holds an ACCEPTED
	// participation in any event of the given host.
	HasAcceptedForHost(ctx context.Context, attendeeID, hostID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// RefundRequester signals that a refund is owed for a payment. Implementations
// record the request only; refund execution is out of scope.
type RefundRequester interface {
	RequestRefund(ctx context.Context, payment *Payment) error
}

// ParticipationService owns the join/leave/pay state machine for one
// (event, attendee) pair.
type ParticipationService interface {
	Join(ctx context.Context, eventID string, attendee Identity) (*JoinResult, error)
	Leave(ctx context.Context, eventID string, attendee Identity) (*LeaveResult, error)
	GetParticipants(ctx context.Context, eventID string, requester Identity) ([]*Participant, error)
	MyPaidEvents(ctx context.Context, attendee Identity) ([]*PaidParticipation, error)
}
