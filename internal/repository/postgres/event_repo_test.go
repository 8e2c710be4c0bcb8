package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventmarket/internal/domain"
)

func eventRows(id string) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "host_id", "title", "type", "description", "location", "date_time",
		"min_participants", "max_participants", "joining_fee", "currency", "status", "images",
		"created_at", "updated_at",
	}).AddRow(id, "host-1", "City Hike", "outdoor", "A walk", "Dhaka", now,
		nil, 20, int64(500), "BDT", "OPEN", "{}", now, now)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				HostID:   "host-1",
				Title:    "City Hike",
				Type:     "outdoor",
				Currency: "BDT",
				Status:   domain.EventOpen,
				Images:   []string{},
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
			},
			wantID: "ev-1",
		},
		{
			name: "db error",
			event: &domain.Event{
				HostID: "host-1",
				Title:  "City Hike",
				Images: []string{},
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnRows(eventRows("ev-1"))
			},
		},
		{
			name: "not found",
			id:   "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM events WHERE id = \$1`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			e, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.id, e.ID)
			require.Nil(t, e.MinParticipants)
			require.NotNil(t, e.MaxParticipants)
			require.Equal(t, 20, *e.MaxParticipants)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ExistsDuplicate(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("City Hike", "host-1", "outdoor", "Dhaka").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewEventRepository(db)
	exists, err := repo.ExistsDuplicate(ctx, "City Hike", "host-1", "outdoor", "Dhaka")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE status = \$1`).
		WithArgs(domain.EventOpen).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT (.+) FROM events WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(domain.EventOpen, 10, 0).
		WillReturnRows(eventRows("ev-1"))

	repo := NewEventRepository(db)
	events, total, err := repo.List(ctx, domain.EventFilter{Status: domain.EventOpen},
		domain.ListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, events, 1)
	require.Equal(t, "ev-1", events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	title := "Renamed"
	tests := []struct {
		name    string
		upd     domain.EventUpdate
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "partial update",
			upd:  domain.EventUpdate{Title: &title},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), title = \$1`).
					WithArgs("Renamed", "ev-1").
					WillReturnRows(eventRows("ev-1"))
			},
		},
		{
			name: "not found",
			upd:  domain.EventUpdate{Title: &title},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET`).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			e, err := repo.Update(ctx, "ev-1", tt.upd)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "ev-1", e.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
