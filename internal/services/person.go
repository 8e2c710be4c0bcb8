package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventmarket/internal/domain"
)

type personService struct {
	personRepo     domain.PersonRepository
	hasher         domain.PasswordHasher
	contextTimeout time.Duration
}

func NewPersonService(personRepo domain.PersonRepository,
	hasher domain.PasswordHasher,
	timeout time.Duration,
) domain.PersonService {
	return &personService{
		personRepo:     personRepo,
		hasher:         hasher,
		contextTimeout: timeout,
	}
}

func (s *personService) Register(ctx context.Context, email, password string, role domain.Role, profile *domain.Profile) (*domain.PersonWithProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if profile == nil || profile.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	person := &domain.Person{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if profile.Interests == nil {
		profile.Interests = []string{}
	}
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := s.personRepo.CreateWithProfile(ctx, person, profile); err != nil {
		return nil, err
	}
	return &domain.PersonWithProfile{Person: person, Profile: profile}, nil
}

func (s *personService) GetMyProfile(ctx context.Context, caller domain.Identity) (*domain.PersonWithProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	person, err := s.personRepo.GetByID(ctx, caller.PersonID)
	if err != nil {
		return nil, err
	}
	profile, err := s.personRepo.GetProfile(ctx, caller.PersonID)
	if err != nil {
		return nil, err
	}
	return &domain.PersonWithProfile{Person: person, Profile: profile}, nil
}

func (s *personService) UpdateMyProfile(ctx context.Context, caller domain.Identity, upd domain.ProfileUpdate) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Name != nil && *upd.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
	}
	return s.personRepo.UpdateProfile(ctx, caller.PersonID, upd)
}
