package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventmarket/internal/domain"
)

type eventService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	personRepo      domain.PersonRepository
	ledger          domain.LedgerStore
	contextTimeout  time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	personRepo domain.PersonRepository,
	ledger domain.LedgerStore,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		personRepo:      personRepo,
		ledger:          ledger,
		contextTimeout:  timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, caller domain.Identity, e *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if caller.Role != domain.RoleHost && caller.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only hosts may create events", domain.ErrForbidden)
	}
	if e.HostID == "" || caller.Role != domain.RoleAdmin {
		e.HostID = caller.PersonID
	}
	if err := validateEvent(e); err != nil {
		return nil, err
	}

	dup, err := s.eventRepo.ExistsDuplicate(ctx, e.Title, e.HostID, e.Type, e.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate event: %w", err)
	}
	if dup {
		return nil, fmt.Errorf("%w: identical event already exists", domain.ErrConflict)
	}

	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Status == "" {
		e.Status = domain.EventOpen
	}
	if e.Currency == "" {
		e.Currency = "BDT"
	}
	if e.Images == nil {
		e.Images = []string{}
	}

	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

func validateEvent(e *domain.Event) error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if e.JoiningFee < 0 {
		return fmt.Errorf("%w: joining fee cannot be negative", domain.ErrInvalidInput)
	}
	if e.MinParticipants != nil && *e.MinParticipants < 0 {
		return fmt.Errorf("%w: min participants cannot be negative", domain.ErrInvalidInput)
	}
	if e.MaxParticipants != nil && *e.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max participants must be positive", domain.ErrInvalidInput)
	}
	if e.MinParticipants != nil && e.MaxParticipants != nil && *e.MinParticipants > *e.MaxParticipants {
		return fmt.Errorf("%w: min participants exceeds max", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	host, err := s.hostSummary(ctx, e.HostID)
	if err != nil {
		return nil, err
	}
	participants, err := s.participantRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	payments, err := s.ledger.ListPaymentsByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &domain.EventDetail{
		Event:        e,
		Host:         host,
		Participants: participants,
		Payments:     payments,
	}, nil
}

func (s *eventService) hostSummary(ctx context.Context, hostID string) (*domain.HostSummary, error) {
	person, err := s.personRepo.GetByID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host: %w", err)
	}
	profile, err := s.personRepo.GetProfile(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host profile: %w", err)
	}
	return &domain.HostSummary{
		PersonID:     person.ID,
		Name:         profile.Name,
		Email:        person.Email,
		ProfilePhoto: profile.ProfilePhoto,
	}, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, opts domain.ListOptions) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventRepo.List(ctx, filter, opts)
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, caller domain.Identity, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, e.HostID); err != nil {
		return nil, err
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown event status %q", domain.ErrInvalidInput, *upd.Status)
	}
	if upd.JoiningFee != nil && *upd.JoiningFee < 0 {
		return nil, fmt.Errorf("%w: joining fee cannot be negative", domain.ErrInvalidInput)
	}
	if upd.MaxParticipants != nil {
		if *upd.MaxParticipants <= 0 {
			return nil, fmt.Errorf("%w: max participants must be positive", domain.ErrInvalidInput)
		}
		active, err := s.participantRepo.CountActive(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to count participants: %w", err)
		}
		if *upd.MaxParticipants < active {
			return nil, fmt.Errorf("%w: capacity below current participant count", domain.ErrInvalidState)
		}
	}

	updated, err := s.eventRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string, caller domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(caller, e.HostID); err != nil {
		return err
	}
	return s.ledger.DeleteEventCascade(ctx, id)
}

// authorize permits the owning host or any admin.
func (s *eventService) authorize(caller domain.Identity, hostID string) error {
	if caller.Role == domain.RoleAdmin {
		return nil
	}
	if caller.Role == domain.RoleHost && caller.PersonID == hostID {
		return nil
	}
	return domain.ErrForbidden
}
