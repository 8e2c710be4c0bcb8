package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventmarket/internal/domain"
)

const applicationColumns = `id, applicant_id, reason, contact_number, address, status, feedback, reviewed_by, reviewed_at, created_at, updated_at`

type hostApplicationRepository struct {
	DB *sql.DB
}

func NewHostApplicationRepository(db *sql.DB) domain.HostApplicationRepository {
	return &hostApplicationRepository{
		DB: db,
	}
}

func scanApplication(row interface{ Scan(...any) error }) (*domain.HostApplication, error) {
	app := &domain.HostApplication{}
	var feedback sql.NullString
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	err := row.Scan(&app.ID, &app.ApplicantID, &app.Reason, &app.ContactNumber, &app.Address,
		&app.Status, &feedback, &reviewedBy, &reviewedAt, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	app.Feedback = feedback.String
	if reviewedBy.Valid {
		app.ReviewedBy = &reviewedBy.String
	}
	if reviewedAt.Valid {
		app.ReviewedAt = &reviewedAt.Time
	}
	return app, nil
}

func (r *hostApplicationRepository) Create(ctx context.Context, app *domain.HostApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO host_applications (id, applicant_id, reason, contact_number, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, app.ID, app.ApplicantID, app.Reason, app.ContactNumber, app.Address, app.Status,
		app.CreatedAt, app.UpdatedAt)
	return err
}

func (r *hostApplicationRepository) GetByID(ctx context.Context, id string) (*domain.HostApplication, error) {
	app, err := scanApplication(r.DB.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM host_applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *hostApplicationRepository) ListByApplicant(ctx context.Context, applicantID string) ([]*domain.HostApplication, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM host_applications WHERE applicant_id = $1 ORDER BY created_at DESC`,
		applicantID)
}

func (r *hostApplicationRepository) ListPending(ctx context.Context) ([]*domain.HostApplication, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM host_applications WHERE status = 'PENDING' ORDER BY created_at ASC`)
}

func (r *hostApplicationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.HostApplication, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*domain.HostApplication, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *hostApplicationRepository) HasPending(ctx context.Context, applicantID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM host_applications WHERE applicant_id = $1 AND status = 'PENDING'
		)
	`, applicantID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *hostApplicationRepository) Review(ctx context.Context, id, reviewerID string, approve bool, feedback string) (*domain.HostApplication, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	app, err := scanApplication(tx.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM host_applications WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock application: %w", err)
	}
	if app.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w: application already %s", domain.ErrConflict, app.Status)
	}

	now := time.Now().UTC()
	status := domain.ApplicationRejected
	if approve {
		status = domain.ApplicationApproved
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE host_applications
		SET status = $1, feedback = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $4
		WHERE id = $5
	`, status, feedback, reviewerID, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	if approve {
		// Role flip rides the same transaction as the approval.
		result, err := tx.ExecContext(ctx,
			`UPDATE persons SET role = 'HOST', updated_at = $1 WHERE id = $2`, now, app.ApplicantID)
		if err != nil {
			return nil, fmt.Errorf("failed to promote applicant: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, fmt.Errorf("applicant %s: %w", app.ApplicantID, domain.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	app.Status = status
	app.Feedback = feedback
	app.ReviewedBy = &reviewerID
	app.ReviewedAt = &now
	app.UpdatedAt = now
	return app, nil
}
