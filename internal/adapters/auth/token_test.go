package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmarket/internal/domain"
)

func TestJWTCodec_IssueAndVerify(t *testing.T) {
	codec := NewJWTCodec("test-secret")
	identity := domain.Identity{
		PersonID: "person-123",
		Email:    "u@example.com",
		Role:     domain.RoleHost,
	}

	token, err := codec.Issue(identity, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestJWTCodec_Verify_WrongSecret(t *testing.T) {
	token, err := NewJWTCodec("secret-a").Issue(domain.Identity{
		PersonID: "p-1",
		Email:    "a@example.com",
		Role:     domain.RoleUser,
	}, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTCodec("secret-b").Verify(token)
	require.Error(t, err)
}

func TestJWTCodec_Verify_Expired(t *testing.T) {
	codec := NewJWTCodec("test-secret")
	token, err := codec.Issue(domain.Identity{
		PersonID: "p-1",
		Email:    "a@example.com",
		Role:     domain.RoleUser,
	}, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.Error(t, err)
}

func TestJWTCodec_Verify_UnknownRole(t *testing.T) {
	secret := "test-secret"
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "p-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "a@example.com",
		Role:  "SUPERUSER",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewJWTCodec(secret).Verify(token)
	require.Error(t, err)
}
