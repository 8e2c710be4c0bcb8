package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventmarket/internal/domain"
)

type reconcileService struct {
	ledger          domain.LedgerStore
	gateway         domain.CheckoutGateway
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	personRepo      domain.PersonRepository
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

func NewReconcileService(ledger domain.LedgerStore,
	gateway domain.CheckoutGateway,
	eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	personRepo domain.PersonRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ReconcileService {
	return &reconcileService{
		ledger:          ledger,
		gateway:         gateway,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		personRepo:      personRepo,
		emailService:    emailService,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

// HandleGatewayEvent applies a verified webhook event to the ledger. Events
// that cannot be tied to a local payment are logged and acknowledged, never
// retried: only a failed ledger write is worth a redelivery.
func (s *reconcileService) HandleGatewayEvent(ctx context.Context, event *domain.GatewayEvent) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch event.Kind {
	case domain.GatewayCheckoutCompleted:
		return s.applyCompleted(ctx, event)
	case domain.GatewayCheckoutExpired:
		return s.applyExpired(ctx, event)
	default:
		s.logger.Warn("ignoring unhandled gateway event", "kind", event.Kind, "session_id", event.SessionID)
		return nil
	}
}

func (s *reconcileService) applyCompleted(ctx context.Context, event *domain.GatewayEvent) error {
	payment, err := s.resolvePayment(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("completed event for unknown payment", "session_id", event.SessionID)
			return nil
		}
		return err
	}

	settlement, err := s.ledger.SettlePayment(ctx, payment.ID, event.TransactionID,
		event.Metadata[domain.MetadataParticipantID])
	if err != nil {
		return fmt.Errorf("failed to settle payment %s: %w", payment.ID, err)
	}
	if !settlement.Applied {
		s.logger.Info("completed event on terminal payment ignored",
			"payment_id", payment.ID, "status", settlement.Payment.Status)
		return nil
	}

	s.sendReceipt(ctx, settlement.Payment)
	return nil
}

func (s *reconcileService) applyExpired(ctx context.Context, event *domain.GatewayEvent) error {
	payment, err := s.resolvePayment(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("expired event for unknown payment", "session_id", event.SessionID)
			return nil
		}
		return err
	}

	settlement, err := s.ledger.ExpirePayment(ctx, payment.ID)
	if err != nil {
		return fmt.Errorf("failed to expire payment %s: %w", payment.ID, err)
	}
	if !settlement.Applied {
		s.logger.Info("expired event on terminal payment ignored",
			"payment_id", payment.ID, "status", settlement.Payment.Status)
	}
	return nil
}

// resolvePayment prefers the paymentId metadata stamped on the session at
// creation, falling back to the session id for events from sessions whose
// metadata was lost.
func (s *reconcileService) resolvePayment(ctx context.Context, event *domain.GatewayEvent) (*domain.Payment, error) {
	if id := event.Metadata[domain.MetadataPaymentID]; id != "" {
		return s.ledger.GetPaymentByID(ctx, id)
	}
	if event.SessionID != "" {
		return s.ledger.GetPaymentBySessionID(ctx, event.SessionID)
	}
	return nil, domain.ErrNotFound
}

// sendReceipt is best effort; a mail failure never fails the settlement.
func (s *reconcileService) sendReceipt(ctx context.Context, payment *domain.Payment) {
	person, err := s.personRepo.GetByID(ctx, payment.PayerID)
	if err != nil {
		s.logger.Error("failed to load payer for receipt", "payment_id", payment.ID, "error", err)
		return
	}
	e, err := s.eventRepo.GetByID(ctx, payment.EventID)
	if err != nil {
		s.logger.Error("failed to load event for receipt", "payment_id", payment.ID, "error", err)
		return
	}
	err = s.emailService.SendPaymentReceipt(ctx, &domain.PaymentReceiptEmailData{
		Email:      person.Email,
		EventTitle: e.Title,
		Amount:     payment.Amount,
		Currency:   payment.Currency,
		PaymentID:  payment.ID,
	})
	if err != nil {
		s.logger.Error("failed to send payment receipt", "payment_id", payment.ID, "error", err)
	}
}

// PullReconcile lets a returning client force agreement with the gateway
// instead of waiting for the webhook to land.
func (s *reconcileService) PullReconcile(ctx context.Context, sessionID string) (*domain.ReconcileState, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	payment, err := s.ledger.GetPaymentBySessionID(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		// Some clients hand back the gateway transaction id instead of the
		// checkout session id; honor both before giving up.
		payment, err = s.ledger.GetPaymentByGatewayTxnID(ctx, sessionID)
	}
	if err != nil {
		return nil, err
	}

	if payment.Status == domain.PaymentPending {
		pollID := sessionID
		if payment.CheckoutSessionID != nil {
			pollID = *payment.CheckoutSessionID
		}
		status, err := s.gateway.SessionStatus(ctx, pollID)
		if err != nil {
			return nil, err
		}
		if status.Paid {
			settlement, err := s.ledger.SettlePayment(ctx, payment.ID, status.TransactionID, "")
			if err != nil {
				return nil, fmt.Errorf("failed to settle payment %s: %w", payment.ID, err)
			}
			if settlement.Applied {
				s.sendReceipt(ctx, settlement.Payment)
			}
			return &domain.ReconcileState{
				Payment:     settlement.Payment,
				Participant: settlement.Participant,
			}, nil
		}
	}

	state := &domain.ReconcileState{Payment: payment}
	participant, err := s.participantRepo.GetByEventAndAttendee(ctx, payment.EventID, payment.PayerID)
	if err == nil {
		state.Participant = participant
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return state, nil
}
