package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"eventmarket/internal/domain"
)

// Config holds Stripe credentials and the redirect URLs embedded in each
// checkout session. FrontendURL has no trailing slash.
type Config struct {
	SecretKey     string
	WebhookSecret string
	FrontendURL   string
}

type stripeGateway struct {
	api           *client.API
	webhookSecret string
	frontendURL   string
}

// NewStripeGateway returns a CheckoutGateway backed by the Stripe API.
func NewStripeGateway(cfg Config) domain.CheckoutGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &stripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		frontendURL:   strings.TrimSuffix(cfg.FrontendURL, "/"),
	}
}

func (g *stripeGateway) CreateSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(req.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.Description),
						Description: stripe.String("Registration for " + req.Description),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(req.CustomerEmail),
		SuccessURL:    stripe.String(g.frontendURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}&eventId=" + req.EventID),
		CancelURL:     stripe.String(g.frontendURL + "/payment-cancel?session_id={CHECKOUT_SESSION_ID}&eventId=" + req.EventID),
	}
	params.Context = ctx
	params.AddMetadata(domain.MetadataPaymentID, req.PaymentID)
	params.AddMetadata(domain.MetadataEventID, req.EventID)
	params.AddMetadata(domain.MetadataAttendeeID, req.AttendeeID)
	params.AddMetadata(domain.MetadataParticipantID, req.ParticipantID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", domain.ErrGateway, err)
	}
	return &domain.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (*domain.GatewayEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: webhook signature verification failed: %v", domain.ErrGateway, err)
	}

	kind := domain.GatewayEventUnknown
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		kind = domain.GatewayCheckoutCompleted
	case stripe.EventTypeCheckoutSessionExpired:
		kind = domain.GatewayCheckoutExpired
	default:
		return &domain.GatewayEvent{Kind: domain.GatewayEventUnknown}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: decode checkout session payload: %v", domain.ErrGateway, err)
	}

	out := &domain.GatewayEvent{
		Kind:      kind,
		SessionID: sess.ID,
		Metadata:  sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		out.TransactionID = sess.PaymentIntent.ID
	}
	return out, nil
}

func (g *stripeGateway) SessionStatus(ctx context.Context, sessionID string) (*domain.SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: get checkout session %s: %v", domain.ErrGateway, sessionID, err)
	}
	status := &domain.SessionStatus{
		Paid: sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if sess.PaymentIntent != nil {
		status.TransactionID = sess.PaymentIntent.ID
	}
	return status, nil
}
