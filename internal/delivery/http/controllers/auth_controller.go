package controllers

import (
	"log/slog"
	"net/http"
	"regexp"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/delivery/http/middleware"
	"eventmarket/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

type AuthController struct {
	Logger        *slog.Logger
	AuthService   domain.AuthService
	PersonService domain.PersonService
}

func NewAuthController(logger *slog.Logger, authService domain.AuthService, personService domain.PersonService) *AuthController {
	return &AuthController{
		Logger:        logger,
		AuthService:   authService,
		PersonService: personService,
	}
}

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	Name          string   `json:"name"`
	ContactNumber string   `json:"contact_number"`
	Address       string   `json:"address"`
	Gender        string   `json:"gender"`
	Interests     []string `json:"interests"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (r RegisterRequest) Validate() []string {
	var errs []string
	if r.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(r.Email) {
		errs = append(errs, "email format is invalid")
	}
	if len(r.Password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// Register godoc
// @Summary Register an attendee account
// @Description Create a person with the USER role and its profile. Host and admin accounts are provisioned through host applications and the admin API respectively.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "registration payload"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.PersonService.Register(r.Context(), req.Email, req.Password, domain.RoleUser, &domain.Profile{
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

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() []string {
	var errs []string
	if r.Email == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	pair, err := c.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, pair)
}

// RefreshRequest is the request body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() []string {
	if r.RefreshToken == "" {
		return []string{"refresh_token is required"}
	}
	return nil
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "refresh token"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	pair, err := c.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, pair)
}

// ChangePasswordRequest is the request body for POST /auth/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() []string {
	var errs []string
	if r.OldPassword == "" {
		errs = append(errs, "old_password is required")
	}
	if len(r.NewPassword) < 6 {
		errs = append(errs, "new_password must be at least 6 characters")
	}
	return errs
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "old and new password"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/change-password [post]
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ChangePasswordRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.AuthService.ChangePassword(r.Context(), identity, req.OldPassword, req.NewPassword); err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "password changed"})
}
