package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventmarket/internal/domain"
)

type statsRepository struct {
	DB *sql.DB
}

func NewStatsRepository(db *sql.DB) domain.StatsRepository {
	return &statsRepository{
		DB: db,
	}
}

func (r *statsRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM persons WHERE role = 'USER' AND is_deleted = FALSE),
			(SELECT COUNT(*) FROM persons WHERE role = 'HOST' AND is_deleted = FALSE),
			(SELECT COUNT(*) FROM persons WHERE role = 'ADMIN' AND is_deleted = FALSE),
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM payments),
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'SUCCESS')
	`).Scan(
		&stats.Counts.TotalUsers,
		&stats.Counts.TotalHosts,
		&stats.Counts.TotalAdmins,
		&stats.Counts.TotalEvents,
		&stats.Counts.TotalPayments,
		&stats.Counts.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}

	stats.RecentPayments, err = r.recentPayments(ctx)
	if err != nil {
		return nil, err
	}
	stats.UpcomingEvents, err = r.upcomingEvents(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statsRepository) recentPayments(ctx context.Context) ([]*domain.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent payments: %w", err)
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

func (r *statsRepository) upcomingEvents(ctx context.Context) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE date_time > NOW() ORDER BY date_time ASC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
