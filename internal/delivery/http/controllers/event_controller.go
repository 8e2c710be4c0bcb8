package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/delivery/http/middleware"
	"eventmarket/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Media   domain.MediaStore
}

func NewEventController(logger *slog.Logger, svc domain.EventService, media domain.MediaStore) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Media:   media,
	}
}

// CreateEventRequest is the request body (or multipart "data" field) for POST /events.
type CreateEventRequest struct {
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	DateTime        time.Time `json:"date_time"`
	MinParticipants *int      `json:"min_participants,omitempty"`
	MaxParticipants *int      `json:"max_participants,omitempty"`
	JoiningFee      int64     `json:"joining_fee"`
	Currency        string    `json:"currency,omitempty"`
}

func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Title == "" {
		errs = append(errs, "title is required")
	}
	if c.DateTime.IsZero() {
		errs = append(errs, "date_time is required")
	}
	if c.JoiningFee < 0 {
		errs = append(errs, "joining_fee cannot be negative")
	}
	return errs
}

const maxEventImages = 5

// CreateEvent godoc
// @Summary Publish a new event
// @Description Accepts application/json, or multipart/form-data with a JSON "data" field plus up to five "file" image uploads. The caller must hold the HOST role; the fee is in integer minor units.
// @Tags events
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "event payload"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req CreateEventRequest
	var images []string
	if isMultipart(r) {
		urls, ok := decodeMultipart(w, r, c.Media, &req, maxEventImages)
		if !ok {
			return
		}
		images = urls
	} else if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event := domain.NewEvent(identity.PersonID, req.Title, req.Type, req.Description,
		req.Location, req.DateTime, req.JoiningFee, req.Currency, images, time.Now().UTC())
	event.MinParticipants = req.MinParticipants
	event.MaxParticipants = req.MaxParticipants

	created, err := c.Service.CreateEvent(r.Context(), identity, event)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// GetEvent godoc
// @Summary Get an event with host, participants, and payments
// @Tags events
// @Produce json
// @Param eventID path string true "event id"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	detail, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// ListEvents godoc
// @Summary List events with filtering, search, and pagination
// @Tags events
// @Produce json
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Param sortBy query string false "sort field: createdAt, dateTime, title, joiningFee"
// @Param sortOrder query string false "asc or desc"
// @Param searchTerm query string false "free-text search over title, type, description, location"
// @Param type query string false "exact event type"
// @Param location query string false "exact location"
// @Param status query string false "event status"
// @Param hostId query string false "host id"
// @Success 200 {object} helpers.APIResponse
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	opts := helpers.ParseListOptions(r)
	q := r.URL.Query()
	filter := domain.EventFilter{
		Type:     q.Get("type"),
		Location: q.Get("location"),
		Status:   domain.EventStatus(q.Get("status")),
		HostID:   q.Get("hostId"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown event status")
		return
	}

	events, total, err := c.Service.ListEvents(r.Context(), filter, opts)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONPage(w, http.StatusOK, events, helpers.NewPaginationMeta(opts.Page, opts.Limit, total))
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
type UpdateEventRequest struct {
	Title           *string             `json:"title,omitempty"`
	Type            *string             `json:"type,omitempty"`
	Description     *string             `json:"description,omitempty"`
	Location        *string             `json:"location,omitempty"`
	DateTime        *time.Time          `json:"date_time,omitempty"`
	MinParticipants *int                `json:"min_participants,omitempty"`
	MaxParticipants *int                `json:"max_participants,omitempty"`
	JoiningFee      *int64              `json:"joining_fee,omitempty"`
	Currency        *string             `json:"currency,omitempty"`
	Status          *domain.EventStatus `json:"status,omitempty"`
}

func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && *u.Title == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.JoiningFee != nil && *u.JoiningFee < 0 {
		errs = append(errs, "joining_fee cannot be negative")
	}
	return errs
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update; absent fields are left unchanged. Only the owning host or an admin may update. Accepts multipart/form-data with "data" and "file" fields to replace images.
// @Tags events
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "event id"
// @Param body body UpdateEventRequest true "fields to change"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state"
// @Failure 422 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}

	var req UpdateEventRequest
	var images []string
	if isMultipart(r) {
		urls, ok := decodeMultipart(w, r, c.Media, &req, maxEventImages)
		if !ok {
			return
		}
		images = urls
	} else if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	updated, err := c.Service.UpdateEvent(r.Context(), eventID, identity, domain.EventUpdate{
		Title:           req.Title,
		Type:            req.Type,
		Description:     req.Description,
		Location:        req.Location,
		DateTime:        req.DateTime,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
		JoiningFee:      req.JoiningFee,
		Currency:        req.Currency,
		Status:          req.Status,
		Images:          images,
	})
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Delete an event and its participants and payments
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "event id"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, identity); err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}
