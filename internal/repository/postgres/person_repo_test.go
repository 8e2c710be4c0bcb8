package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventmarket/internal/domain"
)

func personRows(id, email string) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "role", "is_deleted", "created_at", "updated_at",
	}).AddRow(id, email, "hashed", "USER", false, now, now)
}

func profileRows(id, personID string) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "person_id", "name", "profile_photo", "contact_number", "address", "gender",
		"interests", "created_at", "updated_at",
	}).AddRow(id, personID, "Ayesha", nil, nil, "Dhaka", nil, "{hiking,music}", now, now)
}

func TestPersonRepository_CreateWithProfile(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	newPerson := func() (*domain.Person, *domain.Profile) {
		p := &domain.Person{
			Email:        "ayesha@example.com",
			PasswordHash: "hashed",
			Role:         domain.RoleUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		pr := &domain.Profile{Name: "Ayesha", Interests: []string{"hiking"}, CreatedAt: now, UpdatedAt: now}
		return p, pr
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO persons`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO profiles`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO persons`).
					WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewPersonRepository(db)
			p, pr := newPerson()
			err = repo.CreateWithProfile(ctx, p, pr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, p.ID)
			require.Equal(t, p.ID, pr.PersonID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPersonRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash, role, is_deleted, created_at, updated_at\s+FROM persons WHERE email = \$1`).
			WithArgs("ayesha@example.com").
			WillReturnRows(personRows("person-1", "ayesha@example.com"))

		repo := NewPersonRepository(db)
		p, err := repo.GetByEmail(ctx, "ayesha@example.com")
		require.NoError(t, err)
		require.Equal(t, "person-1", p.ID)
		require.Equal(t, domain.RoleUser, p.Role)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM persons WHERE email`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewPersonRepository(db)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPersonRepository_GetProfile(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM profiles WHERE person_id = \$1`).
		WithArgs("person-1").
		WillReturnRows(profileRows("profile-1", "person-1"))

	repo := NewPersonRepository(db)
	pr, err := repo.GetProfile(ctx, "person-1")
	require.NoError(t, err)
	require.Equal(t, "Ayesha", pr.Name)
	require.Equal(t, "Dhaka", pr.Address)
	require.Equal(t, []string{"hiking", "music"}, pr.Interests)
	require.Empty(t, pr.Gender)
}

func TestPersonRepository_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		name := "Ayesha K"
		mock.ExpectQuery(`UPDATE profiles SET updated_at = NOW\(\), name = \$1\s+WHERE person_id = \$2`).
			WithArgs(name, "person-1").
			WillReturnRows(profileRows("profile-1", "person-1"))

		repo := NewPersonRepository(db)
		_, err = repo.UpdateProfile(ctx, "person-1", domain.ProfileUpdate{Name: &name})
		require.NoError(t, err)
	})

	t.Run("no fields falls back to read", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM profiles WHERE person_id = \$1`).
			WithArgs("person-1").
			WillReturnRows(profileRows("profile-1", "person-1"))

		repo := NewPersonRepository(db)
		pr, err := repo.UpdateProfile(ctx, "person-1", domain.ProfileUpdate{})
		require.NoError(t, err)
		require.Equal(t, "profile-1", pr.ID)
	})
}

func TestPersonRepository_SetRole(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE persons SET role = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs(domain.RoleHost, "person-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPersonRepository(db)
		require.NoError(t, repo.SetRole(ctx, "person-1", domain.RoleHost))
	})

	t.Run("missing person", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE persons SET role`).
			WithArgs(domain.RoleHost, "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPersonRepository(db)
		require.ErrorIs(t, repo.SetRole(ctx, "ghost", domain.RoleHost), domain.ErrNotFound)
	})
}

func TestPersonRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes profile then person", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM profiles WHERE person_id = \$1`).
			WithArgs("person-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM persons WHERE id = \$1`).
			WithArgs("person-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewPersonRepository(db)
		require.NoError(t, repo.Delete(ctx, "person-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing person rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM profiles`).
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM persons`).
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewPersonRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "ghost"), domain.ErrNotFound)
	})
}

func TestPersonRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE persons SET is_deleted = TRUE, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs("person-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPersonRepository(db)
	require.NoError(t, repo.SoftDelete(ctx, "person-1"))
}

func TestPersonRepository_UpdateEmail_Duplicate(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE persons SET email = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("taken@example.com", "person-1").
		WillReturnError(&pq.Error{Code: "23505"})

	repo := NewPersonRepository(db)
	err = repo.UpdateEmail(ctx, "person-1", "taken@example.com")
	require.True(t, errors.Is(err, domain.ErrDuplicateEmail))
}
