package domain

import (
	"context"
	"time"
)

// PaymentStatus is the ledger state of a payment. Transitions are monotone:
// PENDING may move to SUCCESS or FAILED; both are terminal.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Terminal reports whether s is a terminal payment status.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

// Payment is a ledger row for one joining-fee collection attempt. Amount is
// in integer minor units and equals the event's joining fee at creation time.
// Payments are never deleted outside an event cascade.
type Payment struct {
	ID                string        `json:"id"`
	EventID           string        `json:"event_id"`
	PayerID           string        `json:"payer_id"`
	Amount            int64         `json:"amount"`
	Currency          string        `json:"currency"`
	Status            PaymentStatus `json:"status"`
	CheckoutSessionID *string       `json:"checkout_session_id,omitempty"`
	GatewayTxnID      *string       `json:"gateway_txn_id,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Metadata keys attached to every checkout session so webhook events can be
// tied back to ledger rows without relying on session-id stability.
const (
	MetadataPaymentID     = "paymentId"
	MetadataEventID       = "eventId"
	MetadataAttendeeID    = "attendeeId"
	MetadataParticipantID = "participantId"
)

// CheckoutRequest describes a hosted-checkout session to create.
type CheckoutRequest struct {
	PaymentID     string
	EventID       string
	AttendeeID    string
	ParticipantID string
	Amount        int64
	Currency      string
	Description   string
	CustomerEmail string
}

// CheckoutSession is the gateway-hosted payment flow instance.
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus is the gateway's authoritative view of a checkout session.
type SessionStatus struct {
	Paid          bool
	TransactionID string
}

// GatewayEventKind discriminates parsed gateway webhook events.
type GatewayEventKind string

const (
	GatewayCheckoutCompleted GatewayEventKind = "checkout.completed"
	GatewayCheckoutExpired   GatewayEventKind = "checkout.expired"
	GatewayEventUnknown      GatewayEventKind = "unknown"
)

// GatewayEvent is a verified, decoded webhook event from the gateway.
type GatewayEvent struct {
	Kind          GatewayEventKind
	SessionID     string
	TransactionID string
	Metadata      map[string]string
}

// CheckoutGateway is a stateless wrapper over the external hosted-checkout
// provider.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook verifies the signature on a raw webhook body and decodes
	// it. A signature failure returns an error wrapping ErrGateway.
	ParseWebhook(payload []byte, signature string) (*GatewayEvent, error)
	SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// JoinRecord is what the ledger durably committed for a join. Retry is true
// when an earlier join already committed these rows but never obtained a
// checkout session, so session creation should run again for the same payment.
type JoinRecord struct {
	Participant *Participant
	Payment     *Payment
	Retry       bool
}

// Settlement is the payment + participant state after a reconciliation
// transition. Applied is false when the payment was already terminal and the
// transition was a no-op.
type Settlement struct {
	Payment     *Payment
	Participant *Participant
	Applied     bool
}

// LedgerStore exposes the transactional multi-row operations of the
// participation and payment lifecycle. Every method runs in a single storage
// transaction; no method holds a row lock across an external network call.
type LedgerStore interface {
	// RecordJoin locks the event row, re-checks status and capacity, and
	// inserts (or revives) the participant plus a PENDING payment when the
	// fee is non-zero. Returns ErrNotFound, ErrInvalidState, ErrConflict,
	// or ErrCapacityExceeded per the join contract.
	RecordJoin(ctx context.Context, eventID, attendeeID string) (*JoinRecord, error)
	// SetPaymentSession stores the checkout session id after the external
	// call committed, in its own short transaction.
	SetPaymentSession(ctx context.Context, paymentID, sessionID string) error
	// SettlePayment applies the SUCCESS transition: payment SUCCESS with the
	// gateway transaction id, linked participant ACCEPTED and paid. The
	// participant is located by participantID when given, otherwise by its
	// payment reference. Idempotent: a terminal payment is left untouched.
	SettlePayment(ctx context.Context, paymentID, gatewayTxnID, participantID string) (*Settlement, error)
	// ExpirePayment applies the FAILED transition for a still-PENDING
	// payment and sets the participant REJECTED and unpaid. A payment
	// already SUCCESS is never downgraded.
	ExpirePayment(ctx context.Context, paymentID string) (*Settlement, error)
	GetPaymentByID(ctx context.Context, id string) (*Payment, error)
	GetPaymentBySessionID(ctx context.Context, sessionID string) (*Payment, error)
	GetPaymentByGatewayTxnID(ctx context.Context, txnID string) (*Payment, error)
	ListPaymentsByEventID(ctx context.Context, eventID string) ([]*Payment, error)
	// DeleteEventCascade removes the event with its participants and
	// payments as one atomic unit.
	DeleteEventCascade(ctx context.Context, eventID string) error
}

// ReconcileState is the current payment/participant view returned to a
// polling client.
type ReconcileState struct {
	Payment     *Payment     `json:"payment"`
	Participant *Participant `json:"participant,omitempty"`
}

// ReconcileService brings local payment state into agreement with the
// gateway, via push (webhook) or pull (status query).
type ReconcileService interface {
	HandleGatewayEvent(ctx context.Context, event *GatewayEvent) error
	PullReconcile(ctx context.Context, sessionID string) (*ReconcileState, error)
}
