package controllers

import (
	"log/slog"
	"net/http"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/delivery/http/middleware"
	"eventmarket/internal/domain"
)

type ParticipationController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService) *ParticipationController {
	return &ParticipationController{
		Logger:  logger,
		Service: svc,
	}
}

// Join godoc
// @Summary Join an event
// @Description For a paid event this commits a PENDING participant and payment and returns a hosted checkout URL; acceptance follows settlement. A zero-fee event accepts immediately.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "event id"
// @Success 201 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (hosts cannot join their own event)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict, capacity_exceeded, or invalid_state"
// @Failure 502 {object} helpers.APIResponse "error.code: gateway_error"
// @Router /events/{eventID}/join [post]
func (c *ParticipationController) Join(w http.ResponseWriter, r *http.Request) {
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

	result, err := c.Service.Join(r.Context(), eventID, identity)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// Leave godoc
// @Summary Leave an event
// @Description Removes the caller's participation. A settled payment is flagged for refund; events that already took place cannot be left.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "event id"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /events/{eventID}/leave [delete]
func (c *ParticipationController) Leave(w http.ResponseWriter, r *http.Request) {
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

	result, err := c.Service.Leave(r.Context(), eventID, identity)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// GetParticipants godoc
// @Summary List the participants of an event
// @Description Restricted to the owning host and admins.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "event id"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/participants [get]
func (c *ParticipationController) GetParticipants(w http.ResponseWriter, r *http.Request) {
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

	participants, err := c.Service.GetParticipants(r.Context(), eventID, identity)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participants)
}

// MyPaidEvents godoc
// @Summary List the caller's paid events with payments and hosts
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Router /me/paid-events [get]
func (c *ParticipationController) MyPaidEvents(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.MyPaidEvents(r.Context(), identity)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
