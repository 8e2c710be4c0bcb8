package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventmarket/internal/domain"
)

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(db *sql.DB) domain.ReviewRepository {
	return &reviewRepository{
		DB: db,
	}
}

func (r *reviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO reviews (id, reviewer_id, host_id, event_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rev.ID, rev.ReviewerID, rev.HostID, rev.EventID, rev.Rating, rev.Comment, rev.CreatedAt, rev.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

const reviewListQuery = `
	SELECT rv.id, rv.reviewer_id, rv.host_id, rv.event_id, rv.rating, rv.comment, rv.created_at, rv.updated_at,
		rp.name, reviewer.email, rp.profile_photo,
		hp.name, host.email, hp.profile_photo
	FROM reviews rv
	JOIN persons reviewer ON reviewer.id = rv.reviewer_id
	JOIN profiles rp ON rp.person_id = reviewer.id
	JOIN persons host ON host.id = rv.host_id
	JOIN profiles hp ON hp.person_id = host.id
`

func (r *reviewRepository) ListAll(ctx context.Context) ([]*domain.ReviewWithNames, error) {
	return r.list(ctx, reviewListQuery+` ORDER BY rv.created_at DESC`)
}

func (r *reviewRepository) ListByHostID(ctx context.Context, hostID string) ([]*domain.ReviewWithNames, error) {
	return r.list(ctx, reviewListQuery+` WHERE rv.host_id = $1 ORDER BY rv.created_at DESC`, hostID)
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...any) ([]*domain.ReviewWithNames, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.ReviewWithNames, 0)
	for rows.Next() {
		rev := &domain.Review{}
		reviewer := &domain.HostSummary{}
		host := &domain.HostSummary{}
		var reviewerPhoto, hostPhoto sql.NullString

		err := rows.Scan(
			&rev.ID, &rev.ReviewerID, &rev.HostID, &rev.EventID, &rev.Rating, &rev.Comment,
			&rev.CreatedAt, &rev.UpdatedAt,
			&reviewer.Name, &reviewer.Email, &reviewerPhoto,
			&host.Name, &host.Email, &hostPhoto,
		)
		if err != nil {
			return nil, err
		}
		reviewer.PersonID = rev.ReviewerID
		reviewer.ProfilePhoto = reviewerPhoto.String
		host.PersonID = rev.HostID
		host.ProfilePhoto = hostPhoto.String

		out = append(out, &domain.ReviewWithNames{Review: rev, Reviewer: reviewer, Host: host})
	}
	return out, rows.Err()
}
