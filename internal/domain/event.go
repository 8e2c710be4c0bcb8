package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventOpen      EventStatus = "OPEN"
	EventFull      EventStatus = "FULL"
	EventClosed    EventStatus = "CLOSED"
	EventCancelled EventStatus = "CANCELLED"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventOpen, EventFull, EventClosed, EventCancelled:
		return true
	}
	return false
}

// Event represents a published marketplace event. JoiningFee is in integer
// minor units of Currency; zero means joining requires no payment step.
type Event struct {
	ID              string      `json:"id"`
	HostID          string      `json:"host_id"`
	Title           string      `json:"title"`
	Type            string      `json:"type"`
	Description     string      `json:"description"`
	Location        string      `json:"location"`
	DateTime        time.Time   `json:"date_time"`
	MinParticipants *int        `json:"min_participants,omitempty"`
	MaxParticipants *int        `json:"max_participants,omitempty"`
	JoiningFee      int64       `json:"joining_fee"`
	Currency        string      `json:"currency"`
	Status          EventStatus `json:"status"`
	Images          []string    `json:"images"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event with status OPEN. ID is set by the repository
// on create.
func NewEvent(hostID, title, eventType, description, location string, dateTime time.Time, fee int64, currency string, images []string, now time.Time) *Event {
	if currency == "" {
		currency = "BDT"
	}
	if images == nil {
		images = []string{}
	}
	return &Event{
		HostID:      hostID,
		Title:       title,
		Type:        eventType,
		Description: description,
		Location:    location,
		DateTime:    dateTime,
		JoiningFee:  fee,
		Currency:    currency,
		Status:      EventOpen,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HostSummary is the host view embedded in event details and listings.
type HostSummary struct {
	PersonID     string `json:"person_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

// EventDetail is an event joined with its host, participants, and payments.
type EventDetail struct {
	Event        *Event         `json:"event"`
	Host         *HostSummary   `json:"host"`
	Participants []*Participant `json:"participants"`
	Payments     []*Payment     `json:"payments"`
}

// EventFilter holds exact-match filters for event listings.
type EventFilter struct {
	Type     string
	Location string
	Status   EventStatus
	HostID   string
}

// EventUpdate carries partial event mutations; nil fields are left unchanged.
type EventUpdate struct {
	Title           *string
	Type            *string
	Description     *string
	Location        *string
	DateTime        *time.Time
	MinParticipants *int
	MaxParticipants *int
	JoiningFee      *int64
	Currency        *string
	Status          *EventStatus
	Images          []string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// ExistsDuplicate reports whether an event with identical
	// (title, host, type, location) already exists.
	ExistsDuplicate(ctx context.Context, title, hostID, eventType, location string) (bool, error)
	List(ctx context.Context, filter EventFilter, opts ListOptions) ([]*Event, int, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
}

// EventService defines the event lifecycle business logic.
type EventService interface {
	CreateEvent(ctx context.Context, caller Identity, e *Event) (*Event, error)
	GetEvent(ctx context.Context, id string) (*EventDetail, error)
	ListEvents(ctx context.Context, filter EventFilter, opts ListOptions) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, id string, caller Identity, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, id string, caller Identity) error
}
