package controllers

import (
	"log/slog"
	"net/http"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/delivery/http/middleware"
	"eventmarket/internal/domain"
)

type PersonController struct {
	Logger  *slog.Logger
	Service domain.PersonService
	Media   domain.MediaStore
}

func NewPersonController(logger *slog.Logger, svc domain.PersonService, media domain.MediaStore) *PersonController {
	return &PersonController{
		Logger:  logger,
		Service: svc,
		Media:   media,
	}
}

// GetMyProfile godoc
// @Summary Get the caller's account and profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me [get]
func (c *PersonController) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.GetMyProfile(r.Context(), identity)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// UpdateProfileRequest is the request body (or multipart "data" field) for PATCH /me.
type UpdateProfileRequest struct {
	Name          *string  `json:"name,omitempty"`
	ContactNumber *string  `json:"contact_number,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Gender        *string  `json:"gender,omitempty"`
	Interests     []string `json:"interests,omitempty"`
}

func (r UpdateProfileRequest) Validate() []string {
	if r.Name != nil && *r.Name == "" {
		return []string{"name cannot be empty"}
	}
	return nil
}

// UpdateMyProfile godoc
// @Summary Update the caller's profile
// @Description Accepts application/json, or multipart/form-data with a JSON "data" field and an optional "file" field holding a new profile photo.
// @Tags profile
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "fields to change"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me [patch]
func (c *PersonController) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	var photoURL *string
	if isMultipart(r) {
		urls, ok := decodeMultipart(w, r, c.Media, &req, 1)
		if !ok {
			return
		}
		if len(urls) > 0 {
			photoURL = &urls[0]
		}
	} else if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	profile, err := c.Service.UpdateMyProfile(r.Context(), identity, domain.ProfileUpdate{
		Name:          req.Name,
		ProfilePhoto:  photoURL,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Gender:        req.Gender,
		Interests:     req.Interests,
	})
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}
