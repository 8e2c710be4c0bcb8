package controllers

import (
	"log/slog"
	"net/http"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/delivery/http/middleware"
	"eventmarket/internal/domain"
)

type ReviewController struct {
	Logger  *slog.Logger
	Service domain.ReviewService
}

func NewReviewController(logger *slog.Logger, svc domain.ReviewService) *ReviewController {
	return &ReviewController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateReviewRequest is the request body for POST /reviews.
type CreateReviewRequest struct {
	EventID string `json:"event_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r CreateReviewRequest) Validate() []string {
	var errs []string
	if r.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs = append(errs, "rating must be between 1 and 5")
	}
	return errs
}

// CreateReview godoc
// @Summary Review an event's host
// @Description Requires an ACCEPTED participation in one of the host's events; one review per host per reviewer.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateReviewRequest true "review payload"
// @Success 201 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /reviews [post]
func (c *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateReviewRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	review, err := c.Service.CreateReview(r.Context(), identity, &domain.Review{
		EventID: req.EventID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, review)
}

// ListReviews godoc
// @Summary List all reviews with reviewer and host names
// @Tags reviews
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /reviews [get]
func (c *ReviewController) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := c.Service.ListReviews(r.Context())
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reviews)
}

// ListHostReviews godoc
// @Summary List the reviews of one host
// @Tags reviews
// @Produce json
// @Param hostID path string true "host id"
// @Success 200 {object} helpers.APIResponse
// @Router /hosts/{hostID}/reviews [get]
func (c *ReviewController) ListHostReviews(w http.ResponseWriter, r *http.Request) {
	hostID := r.PathValue("hostID")
	if hostID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing hostID")
		return
	}
	reviews, err := c.Service.ListHostReviews(r.Context(), hostID)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reviews)
}
