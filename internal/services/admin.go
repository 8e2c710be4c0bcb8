package services

import (
	"context"
	"time"

	"eventmarket/internal/domain"
)

type adminService struct {
	personRepo     domain.PersonRepository
	statsRepo      domain.StatsRepository
	contextTimeout time.Duration
}

func NewAdminService(personRepo domain.PersonRepository,
	statsRepo domain.StatsRepository,
	timeout time.Duration,
) domain.AdminService {
	return &adminService{
		personRepo:     personRepo,
		statsRepo:      statsRepo,
		contextTimeout: timeout,
	}
}

func requireAdmin(caller domain.Identity) error {
	if caller.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

func (s *adminService) ListPersons(ctx context.Context, caller domain.Identity, filter domain.PersonFilter, opts domain.ListOptions) ([]*domain.PersonWithProfile, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(caller); err != nil {
		return nil, 0, err
	}
	return s.personRepo.List(ctx, filter, opts)
}

func (s *adminService) GetPerson(ctx context.Context, caller domain.Identity, personID string) (*domain.PersonWithProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	person, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	profile, err := s.personRepo.GetProfile(ctx, personID)
	if err != nil {
		return nil, err
	}
	return &domain.PersonWithProfile{Person: person, Profile: profile}, nil
}

func (s *adminService) UpdatePerson(ctx context.Context, caller domain.Identity, personID string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.personRepo.UpdateProfile(ctx, personID, upd)
}

func (s *adminService) DeletePerson(ctx context.Context, caller domain.Identity, personID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(caller); err != nil {
		return err
	}
	if personID == caller.PersonID {
		return domain.ErrForbidden
	}
	return s.personRepo.Delete(ctx, personID)
}

func (s *adminService) SoftDeletePerson(ctx context.Context, caller domain.Identity, personID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(caller); err != nil {
		return err
	}
	if personID == caller.PersonID {
		return domain.ErrForbidden
	}
	return s.personRepo.SoftDelete(ctx, personID)
}

func (s *adminService) Dashboard(ctx context.Context, caller domain.Identity) (*domain.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.statsRepo.DashboardStats(ctx)
}
