package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventmarket/internal/domain"
)

type hostApplicationService struct {
	applicationRepo domain.HostApplicationRepository
	personRepo      domain.PersonRepository
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

func NewHostApplicationService(applicationRepo domain.HostApplicationRepository,
	personRepo domain.PersonRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.HostApplicationService {
	return &hostApplicationService{
		applicationRepo: applicationRepo,
		personRepo:      personRepo,
		emailService:    emailService,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *hostApplicationService) Apply(ctx context.Context, caller domain.Identity, reason, contactNumber, address string) (*domain.HostApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if caller.Role != domain.RoleUser {
		return nil, fmt.Errorf("%w: only attendees may apply to host", domain.ErrForbidden)
	}
	pending, err := s.applicationRepo.HasPending(ctx, caller.PersonID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending applications: %w", err)
	}
	if pending {
		return nil, fmt.Errorf("%w: an application is already pending", domain.ErrConflict)
	}

	now := time.Now().UTC()
	app := &domain.HostApplication{
		ApplicantID:   caller.PersonID,
		Reason:        reason,
		ContactNumber: contactNumber,
		Address:       address,
		Status:        domain.ApplicationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

func (s *hostApplicationService) MyApplications(ctx context.Context, caller domain.Identity) ([]*domain.HostApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.applicationRepo.ListByApplicant(ctx, caller.PersonID)
}

func (s *hostApplicationService) PendingApplications(ctx context.Context, caller domain.Identity) ([]*domain.HostApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.applicationRepo.ListPending(ctx)
}

func (s *hostApplicationService) ReviewApplication(ctx context.Context, caller domain.Identity, id string, approve bool, feedback string) (*domain.HostApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	app, err := s.applicationRepo.Review(ctx, id, caller.PersonID, approve, feedback)
	if err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, app, approve, feedback)
	return app, nil
}

// notifyDecision is best effort; the review already committed.
func (s *hostApplicationService) notifyDecision(ctx context.Context, app *domain.HostApplication, approved bool, feedback string) {
	person, err := s.personRepo.GetByID(ctx, app.ApplicantID)
	if err != nil {
		s.logger.Error("failed to load applicant for decision email", "application_id", app.ID, "error", err)
		return
	}
	profile, err := s.personRepo.GetProfile(ctx, app.ApplicantID)
	if err != nil {
		s.logger.Error("failed to load applicant profile for decision email", "application_id", app.ID, "error", err)
		return
	}
	err = s.emailService.SendHostApplicationDecision(ctx, &domain.HostApplicationDecisionEmailData{
		Email:    person.Email,
		Name:     profile.Name,
		Approved: approved,
		Feedback: feedback,
	})
	if err != nil {
		s.logger.Error("failed to send decision email", "application_id", app.ID, "error", err)
	}
}
