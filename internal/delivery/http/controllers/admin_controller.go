package controllers

import (
	"log/slog"
	"net/http"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/delivery/http/middleware"
	"eventmarket/internal/domain"
)

type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
	Persons domain.PersonService
}

func NewAdminController(logger *slog.Logger, svc domain.AdminService, persons domain.PersonService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
		Persons: persons,
	}
}

// CreatePersonRequest is the request body for POST /admin/persons.
type CreatePersonRequest struct {
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	Role          string   `json:"role"`
	Name          string   `json:"name"`
	ContactNumber string   `json:"contact_number"`
	Address       string   `json:"address"`
	Gender        string   `json:"gender"`
	Interests     []string `json:"interests"`
}

func (r CreatePersonRequest) Validate() []string {
	var errs []string
	if r.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(r.Email) {
		errs = append(errs, "email format is invalid")
	}
	if len(r.Password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	if !domain.Role(r.Role).Valid() {
		errs = append(errs, "role must be ADMIN, HOST, or USER")
	}
	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// CreatePerson godoc
// @Summary Provision an account with an explicit role
// @Description Unlike public registration, the role is taken from the request. Intended for creating host and admin accounts.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePersonRequest true "account payload"
// @Success 201 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /admin/persons [post]
func (c *AdminController) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Persons.Register(r.Context(), req.Email, req.Password, domain.Role(req.Role), &domain.Profile{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Gender:        req.Gender,
		Interests:     req.Interests,
	})
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// ListPersons godoc
// @Summary List accounts with profiles
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Param searchTerm query string false "search over email and name"
// @Param role query string false "exact role: ADMIN, HOST, USER"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/persons [get]
func (c *AdminController) ListPersons(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	opts := helpers.ParseListOptions(r)
	filter := domain.PersonFilter{
		Email: r.URL.Query().Get("email"),
		Role:  domain.Role(r.URL.Query().Get("role")),
	}
	if filter.Role != "" && !filter.Role.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown role")
		return
	}

	persons, total, err := c.Service.ListPersons(r.Context(), identity, filter, opts)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONPage(w, http.StatusOK, persons, helpers.NewPaginationMeta(opts.Page, opts.Limit, total))
}

// GetPerson godoc
// @Summary Get one account with its profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param personID path string true "person id"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/persons/{personID} [get]
func (c *AdminController) GetPerson(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	personID := r.PathValue("personID")
	result, err := c.Service.GetPerson(r.Context(), identity, personID)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// UpdatePerson godoc
// @Summary Update an account's profile
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param personID path string true "person id"
// @Param body body UpdateProfileRequest true "fields to change"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/persons/{personID} [patch]
func (c *AdminController) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	personID := r.PathValue("personID")
	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	profile, err := c.Service.UpdatePerson(r.Context(), identity, personID, domain.ProfileUpdate{
		Name:          req.Name,
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

// DeletePerson godoc
// @Summary Delete an account
// @Description With ?soft=true the account is flagged deleted and kept; otherwise the person and profile rows are removed.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param personID path string true "person id"
// @Param soft query bool false "soft delete"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/persons/{personID} [delete]
func (c *AdminController) DeletePerson(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	personID := r.PathValue("personID")

	var err error
	if r.URL.Query().Get("soft") == "true" {
		err = c.Service.SoftDeletePerson(r.Context(), identity, personID)
	} else {
		err = c.Service.DeletePerson(r.Context(), identity, personID)
	}
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "person deleted"})
}

// Dashboard godoc
// @Summary Admin dashboard statistics
// @Description Aggregate account, event, and payment counts plus total revenue, recent payments, and upcoming events.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	stats, err := c.Service.Dashboard(r.Context(), identity)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
