package controllers

import (
	"io"
	"log/slog"
	"net/http"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/domain"
)

// maxWebhookBody bounds the webhook payload read to protect the handler.
const maxWebhookBody = 1 << 20

type PaymentController struct {
	Logger    *slog.Logger
	Gateway   domain.CheckoutGateway
	Reconcile domain.ReconcileService
}

func NewPaymentController(logger *slog.Logger, gateway domain.CheckoutGateway, reconcile domain.ReconcileService) *PaymentController {
	return &PaymentController{
		Logger:    logger,
		Gateway:   gateway,
		Reconcile: reconcile,
	}
}

// Webhook godoc
// @Summary Payment gateway webhook receiver
// @Description Verifies the signature on the raw body and applies checkout completion or expiry to the ledger. A signature failure returns 400; a failed ledger write returns 500 so the gateway redelivers; everything else is acknowledged.
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "webhook signature"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/webhook [post]
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unreadable body")
		return
	}

	event, err := c.Gateway.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		c.Logger.Warn("webhook signature verification failed", "error", err)
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid signature")
		return
	}

	if err := c.Reconcile.HandleGatewayEvent(r.Context(), event); err != nil {
		c.Logger.Error("webhook apply failed", "kind", event.Kind, "session_id", event.SessionID, "error", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to apply event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"received": "true"})
}

// ReconcileSession godoc
// @Summary Reconcile a checkout session against the gateway
// @Description Pull-based fallback for a client returning from checkout before the webhook lands. Queries the gateway for the session's state and applies any missing settlement.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param session_id query string true "checkout session id"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: gateway_error"
// @Router /payments/reconcile [get]
func (c *PaymentController) ReconcileSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing session_id")
		return
	}

	state, err := c.Reconcile.PullReconcile(r.Context(), sessionID)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}
