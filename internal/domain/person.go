package domain

import (
	"context"
	"time"
)

// Role is the single role discriminator on a Person. Every person holds
// exactly one role and exactly one profile row.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleHost  Role = "HOST"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHost, RoleUser:
		return true
	}
	return false
}

// Person is the identity record. Cross-table relations are keyed by the
// immutable ID; email is a mutable, uniquely-indexed attribute.
type Person struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the role-specific attributes owned by a Person.
type Profile struct {
	ID            string    `json:"id"`
	PersonID      string    `json:"person_id"`
	Name          string    `json:"name"`
	ProfilePhoto  string    `json:"profile_photo,omitempty"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Address       string    `json:"address,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	Interests     []string  `json:"interests"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PersonWithProfile pairs an identity record with its profile for listings.
type PersonWithProfile struct {
	Person  *Person  `json:"person"`
	Profile *Profile `json:"profile"`
}

// Identity is the authenticated caller attached to each request.
type Identity struct {
	PersonID string
	Email    string
	Role     Role
}

// ProfileUpdate carries partial profile mutations; nil fields are left unchanged.
type ProfileUpdate struct {
	Name          *string
	ProfilePhoto  *string
	ContactNumber *string
	Address       *string
	Gender        *string
	Interests     []string
}

// PersonFilter holds exact-match filters for person listings.
type PersonFilter struct {
	Email string
	Role  Role
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues signed tokens for an authenticated identity.
type TokenIssuer interface {
	Issue(identity Identity, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the caller identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// PersonRepository defines the interface for identity and profile storage.
type PersonRepository interface {
	// CreateWithProfile inserts the person and its profile row in one
	// transaction. Returns ErrDuplicateEmail when the email is taken.
	CreateWithProfile(ctx context.Context, p *Person, profile *Profile) error
	GetByEmail(ctx context.Context, email string) (*Person, error)
	GetByID(ctx context.Context, id string) (*Person, error)
	GetProfile(ctx context.Context, personID string) (*Profile, error)
	UpdateProfile(ctx context.Context, personID string, upd ProfileUpdate) (*Profile, error)
	UpdateEmail(ctx context.Context, personID, email string) error
	UpdatePassword(ctx context.Context, personID, passwordHash string) error
	SetRole(ctx context.Context, personID string, role Role) error
	List(ctx context.Context, filter PersonFilter, opts ListOptions) ([]*PersonWithProfile, int, error)
	// Delete hard-deletes the person and its profile in one transaction.
	Delete(ctx context.Context, personID string) error
	// SoftDelete flags the person deleted without removing rows.
	SoftDelete(ctx context.Context, personID string) error
}

// PersonService defines registration and profile business logic.
type PersonService interface {
	Register(ctx context.Context, email, password string, role Role, profile *Profile) (*PersonWithProfile, error)
	GetMyProfile(ctx context.Context, caller Identity) (*PersonWithProfile, error)
	UpdateMyProfile(ctx context.Context, caller Identity, upd ProfileUpdate) (*Profile, error)
}

// AuthService defines credential-based authentication.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, caller Identity, oldPassword, newPassword string) error
}

// TokenPair is the issued access and refresh token set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
