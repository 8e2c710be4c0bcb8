package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventmarket/internal/domain"
)

const eventColumns = `id, host_id, title, type, description, location, date_time,
		min_participants, max_participants, joining_fee, currency, status, images,
		created_at, updated_at`

// eventSortColumns whitelists caller-supplied sort fields for event listings.
var eventSortColumns = map[string]string{
	"createdAt":  "created_at",
	"dateTime":   "date_time",
	"title":      "title",
	"joiningFee": "joining_fee",
}

// eventSearchColumns is the fixed field set covered by free-text search.
var eventSearchColumns = []string{"title", "type", "description", "location"}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var minNull, maxNull sql.NullInt64
	err := row.Scan(
		&e.ID, &e.HostID, &e.Title, &e.Type, &e.Description, &e.Location, &e.DateTime,
		&minNull, &maxNull, &e.JoiningFee, &e.Currency, &e.Status, pq.Array(&e.Images),
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
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
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (host_id, title, type, description, location, date_time,
			min_participants, max_participants, joining_fee, currency, status, images,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	var minVal, maxVal sql.NullInt64
	if e.MinParticipants != nil {
		minVal = sql.NullInt64{Int64: int64(*e.MinParticipants), Valid: true}
	}
	if e.MaxParticipants != nil {
		maxVal = sql.NullInt64{Int64: int64(*e.MaxParticipants), Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.HostID, e.Title, e.Type, e.Description, e.Location, e.DateTime,
		minVal, maxVal, e.JoiningFee, e.Currency, e.Status, pq.Array(e.Images),
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ExistsDuplicate(ctx context.Context, title, hostID, eventType, location string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM events
			WHERE title = $1 AND host_id = $2 AND type = $3 AND location = $4
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, title, hostID, eventType, location).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, opts domain.ListOptions) ([]*domain.Event, int, error) {
	var conditions []string
	var args []interface{}
	n := 1

	if term := strings.TrimSpace(opts.SearchTerm); term != "" {
		var ors []string
		for _, col := range eventSearchColumns {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", col, n))
		}
		conditions = append(conditions, "("+strings.Join(ors, " OR ")+")")
		args = append(args, "%"+term+"%")
		n++
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", n))
		args = append(args, filter.Type)
		n++
	}
	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location = $%d", n))
		args = append(args, filter.Location)
		n++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", n))
		args = append(args, filter.Status)
		n++
	}
	if filter.HostID != "" {
		conditions = append(conditions, fmt.Sprintf("host_id = $%d", n))
		args = append(args, filter.HostID)
		n++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM events` + where
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC"
	if col, ok := eventSortColumns[opts.SortBy]; ok {
		dir := "ASC"
		if strings.EqualFold(opts.SortOrder, "desc") {
			dir = "DESC"
		}
		orderBy = col + " " + dir
	}

	query := fmt.Sprintf(`SELECT %s FROM events%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		eventColumns, where, orderBy, n, n+1)
	args = append(args, opts.Limit, opts.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1

	add := func(col string, val interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Type != nil {
		add("type", *upd.Type)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.DateTime != nil {
		add("date_time", *upd.DateTime)
	}
	if upd.MinParticipants != nil {
		add("min_participants", *upd.MinParticipants)
	}
	if upd.MaxParticipants != nil {
		add("max_participants", *upd.MaxParticipants)
	}
	if upd.JoiningFee != nil {
		add("joining_fee", *upd.JoiningFee)
	}
	if upd.Currency != nil {
		add("currency", *upd.Currency)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Images != nil {
		add("images", pq.Array(upd.Images))
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns+`
	`, strings.Join(setClauses, ", "), n)

	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}
