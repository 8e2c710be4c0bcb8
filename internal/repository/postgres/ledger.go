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

const paymentColumns = `id, event_id, payer_id, amount, currency, status, checkout_session_id, gateway_txn_id, created_at, updated_at`

type ledgerStore struct {
	DB *sql.DB
}

// NewLedgerStore returns the transactional store for the participation and
// payment lifecycle.
func NewLedgerStore(db *sql.DB) domain.LedgerStore {
	return &ledgerStore{
		DB: db,
	}
}

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	p := &domain.Payment{}
	var sessionID, txnID sql.NullString
	err := row.Scan(&p.ID, &p.EventID, &p.PayerID, &p.Amount, &p.Currency, &p.Status,
		&sessionID, &txnID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if sessionID.Valid {
		p.CheckoutSessionID = &sessionID.String
	}
	if txnID.Valid {
		p.GatewayTxnID = &txnID.String
	}
	return p, nil
}

func (s *ledgerStore) RecordJoin(ctx context.Context, eventID, attendeeID string) (*domain.JoinRecord, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the event row so concurrent joins serialize on the capacity check.
	var e domain.Event
	var maxNull sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT id, host_id, joining_fee, currency, status, max_participants, title
		FROM events WHERE id = $1 FOR UPDATE
	`, eventID).Scan(&e.ID, &e.HostID, &e.JoiningFee, &e.Currency, &e.Status, &maxNull, &e.Title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}
	// FULL is a capacity condition, not a lifecycle one; it is handled after
	// the existing-participant branches so a pending payer can still retry.
	if e.Status != domain.EventOpen && e.Status != domain.EventFull {
		return nil, fmt.Errorf("%w: event is %s", domain.ErrInvalidState, e.Status)
	}

	now := time.Now().UTC()

	existing, err := scanParticipant(tx.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE event_id = $1 AND attendee_id = $2`,
		eventID, attendeeID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	if existing != nil {
		switch existing.Status {
		case domain.JoinAccepted:
			return nil, fmt.Errorf("%w: already joined", domain.ErrConflict)
		case domain.JoinPending:
			if existing.PaymentID == nil {
				return nil, fmt.Errorf("%w: join already pending", domain.ErrConflict)
			}
			payment, err := scanPayment(tx.QueryRowContext(ctx,
				`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, *existing.PaymentID))
			if err != nil {
				return nil, fmt.Errorf("failed to load pending payment: %w", err)
			}
			if payment.CheckoutSessionID != nil {
				return nil, fmt.Errorf("%w: checkout already in progress", domain.ErrConflict)
			}
			// A prior join committed these rows but never obtained a session.
			if err := tx.Commit(); err != nil {
				return nil, err
			}
			return &domain.JoinRecord{Participant: existing, Payment: payment, Retry: true}, nil
		}
		// REJECTED participants rejoin through the normal path below.
	}

	if e.Status == domain.EventFull {
		return nil, domain.ErrCapacityExceeded
	}
	if maxNull.Valid {
		var active int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM participants WHERE event_id = $1 AND status IN ('PENDING', 'ACCEPTED')`,
			eventID).Scan(&active)
		if err != nil {
			return nil, fmt.Errorf("failed to count participants: %w", err)
		}
		if active >= int(maxNull.Int64) {
			return nil, domain.ErrCapacityExceeded
		}
		if active+1 >= int(maxNull.Int64) {
			if _, err := tx.ExecContext(ctx,
				`UPDATE events SET status = 'FULL', updated_at = $1 WHERE id = $2`, now, eventID); err != nil {
				return nil, fmt.Errorf("failed to mark event full: %w", err)
			}
		}
	}

	var payment *domain.Payment
	var paymentID sql.NullString
	status := domain.JoinAccepted
	paid := true
	if e.JoiningFee > 0 {
		payment = &domain.Payment{
			ID:        uuid.NewString(),
			EventID:   eventID,
			PayerID:   attendeeID,
			Amount:    e.JoiningFee,
			Currency:  e.Currency,
			Status:    domain.PaymentPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO payments (id, event_id, payer_id, amount, currency, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, payment.ID, payment.EventID, payment.PayerID, payment.Amount, payment.Currency,
			payment.Status, payment.CreatedAt, payment.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert payment: %w", err)
		}
		paymentID = sql.NullString{String: payment.ID, Valid: true}
		status = domain.JoinPending
		paid = false
	}

	participant := &domain.Participant{
		EventID:    eventID,
		AttendeeID: attendeeID,
		Status:     status,
		Paid:       paid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if payment != nil {
		participant.PaymentID = &payment.ID
	}

	if existing != nil {
		// Revive the rejected row instead of inserting a second one.
		participant.ID = existing.ID
		participant.CreatedAt = existing.CreatedAt
		_, err = tx.ExecContext(ctx, `
			UPDATE participants SET status = $1, paid = $2, payment_id = $3, updated_at = $4
			WHERE id = $5
		`, participant.Status, participant.Paid, paymentID, now, participant.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to revive participant: %w", err)
		}
	} else {
		participant.ID = uuid.NewString()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO participants (id, event_id, attendee_id, status, paid, payment_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, participant.ID, participant.EventID, participant.AttendeeID, participant.Status,
			participant.Paid, paymentID, participant.CreatedAt, participant.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.JoinRecord{Participant: participant, Payment: payment}, nil
}

func (s *ledgerStore) SetPaymentSession(ctx context.Context, paymentID, sessionID string) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE payments SET checkout_session_id = $1, updated_at = NOW() WHERE id = $2
	`, sessionID, paymentID)
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

func (s *ledgerStore) SettlePayment(ctx context.Context, paymentID, gatewayTxnID, participantID string) (*domain.Settlement, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	payment, err := scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, paymentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock payment: %w", err)
	}

	participant, err := s.lockedParticipant(ctx, tx, payment.ID, participantID)
	if err != nil {
		return nil, err
	}

	if payment.Status.Terminal() {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return &domain.Settlement{Payment: payment, Participant: participant, Applied: false}, nil
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE payments SET status = 'SUCCESS', gateway_txn_id = $1, updated_at = $2 WHERE id = $3
	`, gatewayTxnID, now, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}
	payment.Status = domain.PaymentSuccess
	payment.GatewayTxnID = &gatewayTxnID
	payment.UpdatedAt = now

	if participant != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE participants SET status = 'ACCEPTED', paid = TRUE, updated_at = $1 WHERE id = $2
		`, now, participant.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to accept participant: %w", err)
		}
		participant.Status = domain.JoinAccepted
		participant.Paid = true
		participant.UpdatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.Settlement{Payment: payment, Participant: participant, Applied: true}, nil
}

func (s *ledgerStore) ExpirePayment(ctx context.Context, paymentID string) (*domain.Settlement, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	payment, err := scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, paymentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock payment: %w", err)
	}

	participant, err := s.lockedParticipant(ctx, tx, payment.ID, "")
	if err != nil {
		return nil, err
	}

	if payment.Status.Terminal() {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return &domain.Settlement{Payment: payment, Participant: participant, Applied: false}, nil
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE payments SET status = 'FAILED', updated_at = $1 WHERE id = $2
	`, now, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to expire payment: %w", err)
	}
	payment.Status = domain.PaymentFailed
	payment.UpdatedAt = now

	if participant != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE participants SET status = 'REJECTED', paid = FALSE, updated_at = $1 WHERE id = $2
		`, now, participant.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reject participant: %w", err)
		}
		participant.Status = domain.JoinRejected
		participant.Paid = false
		participant.UpdatedAt = now

		// An expired checkout frees the slot it was holding.
		_, err = tx.ExecContext(ctx, `
			UPDATE events SET status = 'OPEN', updated_at = $1 WHERE id = $2 AND status = 'FULL'
		`, now, payment.EventID)
		if err != nil {
			return nil, fmt.Errorf("failed to reopen event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.Settlement{Payment: payment, Participant: participant, Applied: true}, nil
}

// lockedParticipant loads the participant tied to a payment inside tx, by its
// own id when given, otherwise by payment reference. A missing participant is
// not an error; the payment row still settles.
func (s *ledgerStore) lockedParticipant(ctx context.Context, tx *sql.Tx, paymentID, participantID string) (*domain.Participant, error) {
	var row *sql.Row
	if participantID != "" {
		row = tx.QueryRowContext(ctx,
			`SELECT `+participantColumns+` FROM participants WHERE id = $1 FOR UPDATE`, participantID)
	} else {
		row = tx.QueryRowContext(ctx,
			`SELECT `+participantColumns+` FROM participants WHERE payment_id = $1 FOR UPDATE`, paymentID)
	}
	p, err := scanParticipant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock participant: %w", err)
	}
	return p, nil
}

func (s *ledgerStore) GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	return s.getPayment(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (s *ledgerStore) GetPaymentBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	return s.getPayment(ctx, `SELECT `+paymentColumns+` FROM payments WHERE checkout_session_id = $1`, sessionID)
}

func (s *ledgerStore) GetPaymentByGatewayTxnID(ctx context.Context, txnID string) (*domain.Payment, error) {
	return s.getPayment(ctx, `SELECT `+paymentColumns+` FROM payments WHERE gateway_txn_id = $1`, txnID)
}

func (s *ledgerStore) getPayment(ctx context.Context, query string, arg any) (*domain.Payment, error) {
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ledgerStore) ListPaymentsByEventID(ctx context.Context, eventID string) ([]*domain.Payment, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE event_id = $1 ORDER BY created_at DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *ledgerStore) DeleteEventCascade(ctx context.Context, eventID string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
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
