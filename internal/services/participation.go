package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventmarket/internal/domain"
)

type participationService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	ledger          domain.LedgerStore
	gateway         domain.CheckoutGateway
	refunder        domain.RefundRequester
	logger          *slog.Logger
	contextTimeout  time.Duration
}

func NewParticipationService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	ledger domain.LedgerStore,
	gateway domain.CheckoutGateway,
	refunder domain.RefundRequester,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ParticipationService {
	return &participationService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		ledger:          ledger,
		gateway:         gateway,
		refunder:        refunder,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

// Join commits the participant and payment rows first, then creates the
// checkout session outside any row lock. A gateway failure leaves the payment
// PENDING with no session id so a later join attempt retries session creation.
func (s *participationService) Join(ctx context.Context, eventID string, attendee domain.Identity) (*domain.JoinResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.HostID == attendee.PersonID {
		return nil, fmt.Errorf("%w: hosts cannot join their own event", domain.ErrForbidden)
	}

	rec, err := s.ledger.RecordJoin(ctx, eventID, attendee.PersonID)
	if err != nil {
		return nil, err
	}

	if rec.Payment == nil {
		// Free event, accepted immediately.
		return &domain.JoinResult{Participant: rec.Participant}, nil
	}

	session, err := s.gateway.CreateSession(ctx, domain.CheckoutRequest{
		PaymentID:     rec.Payment.ID,
		EventID:       eventID,
		AttendeeID:    attendee.PersonID,
		ParticipantID: rec.Participant.ID,
		Amount:        rec.Payment.Amount,
		Currency:      rec.Payment.Currency,
		Description:   e.Title,
		CustomerEmail: attendee.Email,
	})
	if err != nil {
		s.logger.Error("checkout session creation failed",
			"payment_id", rec.Payment.ID, "event_id", eventID, "error", err)
		return nil, err
	}

	if err := s.ledger.SetPaymentSession(ctx, rec.Payment.ID, session.ID); err != nil {
		return nil, fmt.Errorf("failed to store checkout session: %w", err)
	}
	rec.Payment.CheckoutSessionID = &session.ID

	return &domain.JoinResult{
		Participant: rec.Participant,
		Payment:     rec.Payment,
		CheckoutURL: session.URL,
	}, nil
}

func (s *participationService) Leave(ctx context.Context, eventID string, attendee domain.Identity) (*domain.LeaveResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	participant, err := s.participantRepo.GetByEventAndAttendee(ctx, eventID, attendee.PersonID)
	if err != nil {
		return nil, err
	}
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if time.Now().UTC().After(e.DateTime) {
		return nil, fmt.Errorf("%w: event already took place", domain.ErrInvalidState)
	}

	result := &domain.LeaveResult{}
	if participant.Paid && participant.PaymentID != nil {
		payment, err := s.ledger.GetPaymentByID(ctx, *participant.PaymentID)
		if err == nil && payment.Status == domain.PaymentSuccess {
			if err := s.refunder.RequestRefund(ctx, payment); err != nil {
				s.logger.Error("refund request failed", "payment_id", payment.ID, "error", err)
			} else {
				result.RefundRequested = true
			}
		}
	}

	if err := s.participantRepo.Delete(ctx, participant.ID); err != nil {
		return nil, fmt.Errorf("failed to remove participant: %w", err)
	}

	if e.Status == domain.EventFull {
		open := domain.EventOpen
		if _, err := s.eventRepo.Update(ctx, eventID, domain.EventUpdate{Status: &open}); err != nil {
			s.logger.Error("failed to reopen event after leave", "event_id", eventID, "error", err)
		}
	}

	return result, nil
}

func (s *participationService) GetParticipants(ctx context.Context, eventID string, requester domain.Identity) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if requester.Role != domain.RoleAdmin && requester.PersonID != e.HostID {
		return nil, domain.ErrForbidden
	}
	return s.participantRepo.ListByEventID(ctx, eventID)
}

func (s *participationService) MyPaidEvents(ctx context.Context, attendee domain.Identity) ([]*domain.PaidParticipation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.participantRepo.ListPaidByAttendee(ctx, attendee.PersonID)
}
