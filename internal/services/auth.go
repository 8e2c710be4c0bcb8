package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventmarket/internal/domain"
)

type authService struct {
	personRepo      domain.PersonRepository
	hasher          domain.PasswordHasher
	accessIssuer    domain.TokenIssuer
	refreshIssuer   domain.TokenIssuer
	refreshVerifier domain.TokenVerifier
	accessExpiry    time.Duration
	refreshExpiry   time.Duration
	contextTimeout  time.Duration
}

func NewAuthService(personRepo domain.PersonRepository,
	hasher domain.PasswordHasher,
	accessIssuer domain.TokenIssuer,
	refreshIssuer domain.TokenIssuer,
	refreshVerifier domain.TokenVerifier,
	accessExpiry, refreshExpiry time.Duration,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		personRepo:      personRepo,
		hasher:          hasher,
		accessIssuer:    accessIssuer,
		refreshIssuer:   refreshIssuer,
		refreshVerifier: refreshVerifier,
		accessExpiry:    accessExpiry,
		refreshExpiry:   refreshExpiry,
		contextTimeout:  timeout,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	person, err := s.personRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load person: %w", err)
	}
	if person.IsDeleted {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(person.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issuePair(domain.Identity{
		PersonID: person.ID,
		Email:    person.Email,
		Role:     person.Role,
	})
}

// Refresh reloads the person so a role change since login is reflected in the
// new access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	identity, err := s.refreshVerifier.Verify(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	person, err := s.personRepo.GetByID(ctx, identity.PersonID)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if person.IsDeleted {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issuePair(domain.Identity{
		PersonID: person.ID,
		Email:    person.Email,
		Role:     person.Role,
	})
}

func (s *authService) ChangePassword(ctx context.Context, caller domain.Identity, oldPassword, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}
	person, err := s.personRepo.GetByID(ctx, caller.PersonID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(person.PasswordHash, oldPassword); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.personRepo.UpdatePassword(ctx, caller.PersonID, hash)
}

func (s *authService) issuePair(identity domain.Identity) (*domain.TokenPair, error) {
	access, err := s.accessIssuer.Issue(identity, s.accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.refreshIssuer.Issue(identity, s.refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
