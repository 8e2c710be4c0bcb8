package services

import (
	"context"
	"fmt"
	"time"

	"eventmarket/internal/domain"
)

type reviewService struct {
	reviewRepo      domain.ReviewRepository
	participantRepo domain.ParticipantRepository
	eventRepo       domain.EventRepository
	personRepo      domain.PersonRepository
	contextTimeout  time.Duration
}

func NewReviewService(reviewRepo domain.ReviewRepository,
	participantRepo domain.ParticipantRepository,
	eventRepo domain.EventRepository,
	personRepo domain.PersonRepository,
	timeout time.Duration,
) domain.ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		personRepo:      personRepo,
		contextTimeout:  timeout,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, caller domain.Identity, rev *domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if rev.Rating < 1 || rev.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	e, err := s.eventRepo.GetByID(ctx, rev.EventID)
	if err != nil {
		return nil, err
	}
	rev.HostID = e.HostID
	rev.ReviewerID = caller.PersonID
	if rev.HostID == caller.PersonID {
		return nil, fmt.Errorf("%w: hosts cannot review themselves", domain.ErrForbidden)
	}

	attended, err := s.participantRepo.HasAcceptedForHost(ctx, caller.PersonID, rev.HostID)
	if err != nil {
		return nil, fmt.Errorf("failed to check participation: %w", err)
	}
	if !attended {
		return nil, fmt.Errorf("%w: reviews require an accepted participation with this host", domain.ErrForbidden)
	}

	now := time.Now().UTC()
	rev.CreatedAt = now
	rev.UpdatedAt = now
	if err := s.reviewRepo.Create(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *reviewService) ListReviews(ctx context.Context) ([]*domain.ReviewWithNames, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.reviewRepo.ListAll(ctx)
}

func (s *reviewService) ListHostReviews(ctx context.Context, hostID string) ([]*domain.ReviewWithNames, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.personRepo.GetByID(ctx, hostID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByHostID(ctx, hostID)
}
