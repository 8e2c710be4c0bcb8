package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventmarket/internal/domain"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type personRepository struct {
	DB *sql.DB
}

func NewPersonRepository(db *sql.DB) domain.PersonRepository {
	return &personRepository{
		DB: db,
	}
}

func (r *personRepository) CreateWithProfile(ctx context.Context, p *domain.Person, profile *domain.Profile) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO persons (id, email, password_hash, role, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.Email, p.PasswordHash, p.Role, p.IsDeleted, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert person: %w", err)
	}

	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.PersonID = p.ID
	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (id, person_id, name, profile_photo, contact_number, address, gender, interests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, profile.ID, profile.PersonID, profile.Name, profile.ProfilePhoto, profile.ContactNumber,
		profile.Address, profile.Gender, pq.Array(profile.Interests), profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return tx.Commit()
}

func scanPerson(row interface{ Scan(...any) error }) (*domain.Person, error) {
	p := &domain.Person{}
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *personRepository) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	query := `
		SELECT id, email, password_hash, role, is_deleted, created_at, updated_at
		FROM persons WHERE email = $1
	`
	p, err := scanPerson(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *personRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	query := `
		SELECT id, email, password_hash, role, is_deleted, created_at, updated_at
		FROM persons WHERE id = $1
	`
	p, err := scanPerson(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanProfile(row interface{ Scan(...any) error }) (*domain.Profile, error) {
	pr := &domain.Profile{}
	var photo, contact, address, gender sql.NullString
	err := row.Scan(&pr.ID, &pr.PersonID, &pr.Name, &photo, &contact, &address, &gender,
		pq.Array(&pr.Interests), &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	pr.ProfilePhoto = photo.String
	pr.ContactNumber = contact.String
	pr.Address = address.String
	pr.Gender = gender.String
	if pr.Interests == nil {
		pr.Interests = []string{}
	}
	return pr, nil
}

const profileColumns = `id, person_id, name, profile_photo, contact_number, address, gender, interests, created_at, updated_at`

func (r *personRepository) GetProfile(ctx context.Context, personID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE person_id = $1`
	pr, err := scanProfile(r.DB.QueryRowContext(ctx, query, personID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return pr, nil
}

func (r *personRepository) UpdateProfile(ctx context.Context, personID string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1

	add := func(col string, val interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.ProfilePhoto != nil {
		add("profile_photo", *upd.ProfilePhoto)
	}
	if upd.ContactNumber != nil {
		add("contact_number", *upd.ContactNumber)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.Gender != nil {
		add("gender", *upd.Gender)
	}
	if upd.Interests != nil {
		add("interests", pq.Array(upd.Interests))
	}
	if n == 1 {
		return r.GetProfile(ctx, personID)
	}

	args = append(args, personID)
	query := fmt.Sprintf(`
		UPDATE profiles SET %s
		WHERE person_id = $%d
		RETURNING `+profileColumns+`
	`, strings.Join(setClauses, ", "), n)

	pr, err := scanProfile(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return pr, nil
}

func (r *personRepository) UpdateEmail(ctx context.Context, personID, email string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE persons SET email = $1, updated_at = NOW() WHERE id = $2`, email, personID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *personRepository) UpdatePassword(ctx context.Context, personID, passwordHash string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE persons SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, personID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *personRepository) SetRole(ctx context.Context, personID string, role domain.Role) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE persons SET role = $1, updated_at = NOW() WHERE id = $2`, role, personID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *personRepository) List(ctx context.Context, filter domain.PersonFilter, opts domain.ListOptions) ([]*domain.PersonWithProfile, int, error) {
	var conditions []string
	var args []interface{}
	n := 1

	if term := strings.TrimSpace(opts.SearchTerm); term != "" {
		conditions = append(conditions, fmt.Sprintf("(p.email ILIKE $%d OR pr.name ILIKE $%d)", n, n))
		args = append(args, "%"+term+"%")
		n++
	}
	if filter.Email != "" {
		conditions = append(conditions, fmt.Sprintf("p.email = $%d", n))
		args = append(args, filter.Email)
		n++
	}
	if filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("p.role = $%d", n))
		args = append(args, filter.Role)
		n++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	base := ` FROM persons p JOIN profiles pr ON pr.person_id = p.id` + where

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.email, p.password_hash, p.role, p.is_deleted, p.created_at, p.updated_at,
			pr.id, pr.person_id, pr.name, pr.profile_photo, pr.contact_number, pr.address, pr.gender,
			pr.interests, pr.created_at, pr.updated_at
		%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d
	`, base, n, n+1)
	args = append(args, opts.Limit, opts.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*domain.PersonWithProfile, 0)
	for rows.Next() {
		p := &domain.Person{}
		pr := &domain.Profile{}
		var photo, contact, address, gender sql.NullString
		err := rows.Scan(
			&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
			&pr.ID, &pr.PersonID, &pr.Name, &photo, &contact, &address, &gender,
			pq.Array(&pr.Interests), &pr.CreatedAt, &pr.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		pr.ProfilePhoto = photo.String
		pr.ContactNumber = contact.String
		pr.Address = address.String
		pr.Gender = gender.String
		if pr.Interests == nil {
			pr.Interests = []string{}
		}
		out = append(out, &domain.PersonWithProfile{Person: p, Profile: pr})
	}
	return out, total, rows.Err()
}

func (r *personRepository) Delete(ctx context.Context, personID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE person_id = $1`, personID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, personID)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

func (r *personRepository) SoftDelete(ctx context.Context, personID string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE persons SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`, personID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
