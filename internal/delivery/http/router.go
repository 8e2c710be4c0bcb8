package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventmarket/internal/delivery/http/controllers"
	"eventmarket/internal/delivery/http/middleware"
	"eventmarket/internal/domain"
)

// Controllers bundles every route handler the router wires up.
type Controllers struct {
	Auth          *controllers.AuthController
	Person        *controllers.PersonController
	Event         *controllers.EventController
	Participation *controllers.ParticipationController
	Payment       *controllers.PaymentController
	Admin         *controllers.AdminController
	HostApp       *controllers.HostApplicationController
	Review        *controllers.ReviewController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(verifier)
	adminOnly := middleware.RequireAuth(verifier, domain.RoleAdmin)
	hostOrAdmin := middleware.RequireAuth(verifier, domain.RoleHost, domain.RoleAdmin)

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", c.Auth.Refresh)
	mux.HandleFunc("POST /auth/change-password", authed(c.Auth.ChangePassword))

	// Profile
	mux.HandleFunc("GET /me", authed(c.Person.GetMyProfile))
	mux.HandleFunc("PATCH /me", authed(c.Person.UpdateMyProfile))
	mux.HandleFunc("GET /me/paid-events", authed(c.Participation.MyPaidEvents))

	// Events
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("POST /events", hostOrAdmin(c.Event.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", hostOrAdmin(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", hostOrAdmin(c.Event.DeleteEvent))

	// Participation
	mux.HandleFunc("POST /events/{eventID}/join", authed(c.Participation.Join))
	mux.HandleFunc("DELETE /events/{eventID}/leave", authed(c.Participation.Leave))
	mux.HandleFunc("GET /events/{eventID}/participants", hostOrAdmin(c.Participation.GetParticipants))

	// Payments. The webhook is unauthenticated; its signature is the auth.
	mux.HandleFunc("POST /payments/webhook", c.Payment.Webhook)
	mux.HandleFunc("GET /payments/reconcile", authed(c.Payment.ReconcileSession))

	// Reviews
	mux.HandleFunc("GET /reviews", c.Review.ListReviews)
	mux.HandleFunc("POST /reviews", authed(c.Review.CreateReview))
	mux.HandleFunc("GET /hosts/{hostID}/reviews", c.Review.ListHostReviews)

	// Host applications
	mux.HandleFunc("POST /host-applications", authed(c.HostApp.Apply))
	mux.HandleFunc("GET /host-applications/mine", authed(c.HostApp.MyApplications))

	// Admin
	mux.HandleFunc("GET /admin/persons", adminOnly(c.Admin.ListPersons))
	mux.HandleFunc("POST /admin/persons", adminOnly(c.Admin.CreatePerson))
	mux.HandleFunc("GET /admin/persons/{personID}", adminOnly(c.Admin.GetPerson))
	mux.HandleFunc("PATCH /admin/persons/{personID}", adminOnly(c.Admin.UpdatePerson))
	mux.HandleFunc("DELETE /admin/persons/{personID}", adminOnly(c.Admin.DeletePerson))
	mux.HandleFunc("GET /admin/dashboard", adminOnly(c.Admin.Dashboard))
	mux.HandleFunc("GET /admin/host-applications", adminOnly(c.HostApp.PendingApplications))
	mux.HandleFunc("PATCH /admin/host-applications/{applicationID}", adminOnly(c.HostApp.ReviewApplication))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
