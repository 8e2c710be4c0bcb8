package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventmarket/internal/domain"
)

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeCodec struct {
	prefix string
}

func (f *fakeCodec) Issue(identity domain.Identity, expiry time.Duration) (string, error) {
	return fmt.Sprintf("%s|%s|%s", f.prefix, identity.PersonID, identity.Role), nil
}

func (f *fakeCodec) Verify(token string) (domain.Identity, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 || parts[0] != f.prefix {
		return domain.Identity{}, errors.New("invalid token")
	}
	return domain.Identity{PersonID: parts[1], Role: domain.Role(parts[2])}, nil
}

func newAuthFixture() (domain.AuthService, *fakePersonRepo) {
	persons := &fakePersonRepo{
		persons: map[string]*domain.Person{
			"person-1": {
				ID:           "person-1",
				Email:        "ayesha@example.com",
				PasswordHash: "hash:secret123",
				Role:         domain.RoleUser,
			},
		},
		profiles: map[string]*domain.Profile{},
	}
	access := &fakeCodec{prefix: "access"}
	refresh := &fakeCodec{prefix: "refresh"}
	svc := NewAuthService(persons, fakeHasher{}, access, refresh, refresh,
		time.Hour, 30*24*time.Hour, time.Second)
	return svc, persons
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes email", func(t *testing.T) {
		svc, _ := newAuthFixture()

		pair, err := svc.Login(ctx, "  Ayesha@Example.com ", "secret123")
		require.NoError(t, err)
		require.Equal(t, "access|person-1|USER", pair.AccessToken)
		require.Equal(t, "refresh|person-1|USER", pair.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newAuthFixture()

		_, err := svc.Login(ctx, "ayesha@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newAuthFixture()

		_, err := svc.Login(ctx, "nobody@example.com", "secret123")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("deleted account", func(t *testing.T) {
		svc, persons := newAuthFixture()
		persons.persons["person-1"].IsDeleted = true

		_, err := svc.Login(ctx, "ayesha@example.com", "secret123")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("reflects role change since login", func(t *testing.T) {
		svc, persons := newAuthFixture()

		pair, err := svc.Login(ctx, "ayesha@example.com", "secret123")
		require.NoError(t, err)

		persons.persons["person-1"].Role = domain.RoleHost

		refreshed, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, "access|person-1|HOST", refreshed.AccessToken)
	})

	t.Run("rejects access token", func(t *testing.T) {
		svc, _ := newAuthFixture()

		pair, err := svc.Login(ctx, "ayesha@example.com", "secret123")
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("rejects deleted person", func(t *testing.T) {
		svc, persons := newAuthFixture()

		pair, err := svc.Login(ctx, "ayesha@example.com", "secret123")
		require.NoError(t, err)

		persons.persons["person-1"].IsDeleted = true

		_, err = svc.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	caller := domain.Identity{PersonID: "person-1", Role: domain.RoleUser}

	t.Run("success", func(t *testing.T) {
		svc, persons := newAuthFixture()

		err := svc.ChangePassword(ctx, caller, "secret123", "newsecret")
		require.NoError(t, err)
		require.Equal(t, "hash:newsecret", persons.persons["person-1"].PasswordHash)
	})

	t.Run("wrong old password", func(t *testing.T) {
		svc, _ := newAuthFixture()

		err := svc.ChangePassword(ctx, caller, "wrong", "newsecret")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("short new password", func(t *testing.T) {
		svc, _ := newAuthFixture()

		err := svc.ChangePassword(ctx, caller, "secret123", "abc")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
