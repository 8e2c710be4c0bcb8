package controllers

import (
	"log/slog"
	"net/http"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/delivery/http/middleware"
	"eventmarket/internal/domain"
)

type HostApplicationController struct {
	Logger  *slog.Logger
	Service domain.HostApplicationService
}

func NewHostApplicationController(logger *slog.Logger, svc domain.HostApplicationService) *HostApplicationController {
	return &HostApplicationController{
		Logger:  logger,
		Service: svc,
	}
}

// ApplyRequest is the request body for POST /host-applications.
type ApplyRequest struct {
	Reason        string `json:"reason"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
}

func (r ApplyRequest) Validate() []string {
	if r.Reason == "" {
		return []string{"reason is required"}
	}
	return nil
}

// Apply godoc
// @Summary Apply to become a host
// @Description Only USER accounts may apply; one PENDING application is allowed at a time.
// @Tags host-applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyRequest true "application payload"
// @Success 201 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /host-applications [post]
func (c *HostApplicationController) Apply(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ApplyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	app, err := c.Service.Apply(r.Context(), identity, req.Reason, req.ContactNumber, req.Address)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, app)
}

// MyApplications godoc
// @Summary List the caller's host applications
// @Tags host-applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Router /host-applications/mine [get]
func (c *HostApplicationController) MyApplications(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	apps, err := c.Service.MyApplications(r.Context(), identity)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, apps)
}

// PendingApplications godoc
// @Summary List PENDING host applications
// @Tags host-applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/host-applications [get]
func (c *HostApplicationController) PendingApplications(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	apps, err := c.Service.PendingApplications(r.Context(), identity)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, apps)
}

// ReviewApplicationRequest is the request body for PATCH /admin/host-applications/{applicationID}.
type ReviewApplicationRequest struct {
	Approve  bool   `json:"approve"`
	Feedback string `json:"feedback"`
}

// ReviewApplication godoc
// @Summary Approve or reject a host application
// @Description Approval promotes the applicant to HOST in the same transaction. A processed application cannot be reviewed again.
// @Tags host-applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "application id"
// @Param body body ReviewApplicationRequest true "decision"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /admin/host-applications/{applicationID} [patch]
func (c *HostApplicationController) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	applicationID := r.PathValue("applicationID")
	var req ReviewApplicationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	app, err := c.Service.ReviewApplication(r.Context(), identity, applicationID, req.Approve, req.Feedback)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}
