package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventmarket/internal/domain"
)

const participantColumns = `id, event_id, attendee_id, status, paid, payment_id, created_at, updated_at`

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

func scanParticipant(row interface{ Scan(...any) error }) (*domain.Participant, error) {
	p := &domain.Participant{}
	var paymentID sql.NullString
	err := row.Scan(&p.ID, &p.EventID, &p.AttendeeID, &p.Status, &p.Paid, &paymentID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if paymentID.Valid {
		p.PaymentID = &paymentID.String
	}
	return p, nil
}

func (r *participantRepository) GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 AND attendee_id = $2`
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, eventID, attendeeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *participantRepository) ListPaidByAttendee(ctx context.Context, attendeeID string) ([]*domain.PaidParticipation, error) {
	query := `
		SELECT pt.id, pt.event_id, pt.attendee_id, pt.status, pt.paid, pt.payment_id, pt.created_at, pt.updated_at,
			e.id, e.host_id, e.title, e.type, e.description, e.location, e.date_time,
			e.min_participants, e.max_participants, e.joining_fee, e.currency, e.status, e.images,
			e.created_at, e.updated_at,
			pay.id, pay.amount, pay.currency, pay.status, pay.gateway_txn_id, pay.created_at,
			host.id, hp.name, host.email, hp.profile_photo
		FROM participants pt
		JOIN events e ON e.id = pt.event_id
		LEFT JOIN payments pay ON pay.id = pt.payment_id
		JOIN persons host ON host.id = e.host_id
		JOIN profiles hp ON hp.person_id = host.id
		WHERE pt.attendee_id = $1 AND pt.paid = TRUE
		ORDER BY pt.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, attendeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.PaidParticipation, 0)
	for rows.Next() {
		pt := &domain.Participant{}
		e := &domain.Event{}
		h := &domain.HostSummary{}
		var paymentID sql.NullString
		var minNull, maxNull sql.NullInt64
		var payID, payCurrency, payStatus, payTxn sql.NullString
		var payAmount sql.NullInt64
		var payCreated sql.NullTime
		var hostPhoto sql.NullString

		err := rows.Scan(
			&pt.ID, &pt.EventID, &pt.AttendeeID, &pt.Status, &pt.Paid, &paymentID, &pt.CreatedAt, &pt.UpdatedAt,
			&e.ID, &e.HostID, &e.Title, &e.Type, &e.Description, &e.Location, &e.DateTime,
			&minNull, &maxNull, &e.JoiningFee, &e.Currency, &e.Status, pq.Array(&e.Images),
			&e.CreatedAt, &e.UpdatedAt,
			&payID, &payAmount, &payCurrency, &payStatus, &payTxn, &payCreated,
			&h.PersonID, &h.Name, &h.Email, &hostPhoto,
		)
		if err != nil {
			return nil, err
		}
		if paymentID.Valid {
			pt.PaymentID = &paymentID.String
		}
		if minNull.Valid {
			v := int(minNull.Int64)
			e.MinParticipants = &v
		}
		if maxNull.Valid {
			v := int(maxNull.Int64)
			e.MaxParticipants = &v
		}
		if e.Images == nil {
			e.Images = []string{}
		}
		h.ProfilePhoto = hostPhoto.String

		var pay *domain.Payment
		if payID.Valid {
			pay = &domain.Payment{
				ID:       payID.String,
				EventID:  e.ID,
				PayerID:  pt.AttendeeID,
				Amount:   payAmount.Int64,
				Currency: payCurrency.String,
				Status:   domain.PaymentStatus(payStatus.String),
			}
			if payTxn.Valid {
				pay.GatewayTxnID = &payTxn.String
			}
			if payCreated.Valid {
				pay.CreatedAt = payCreated.Time
			}
		}

		out = append(out, &domain.PaidParticipation{
			Participant: pt,
			Event:       e,
			Payment:     pay,
			Host:        h,
		})
	}
	return out, rows.Err()
}

func (r *participantRepository) CountActive(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM participants WHERE event_id = $1 AND status IN ('PENDING', 'ACCEPTED')`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *participantRepository) HasAcceptedForHost(ctx context.Context, attendeeID, hostID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM participants pt
			JOIN events e ON e.id = pt.event_id
			WHERE pt.attendee_id = $1 AND e.host_id = $2 AND pt.status = 'ACCEPTED'
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, attendeeID, hostID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
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
