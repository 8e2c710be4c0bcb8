package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventmarket/internal/delivery/http/helpers"
	"eventmarket/internal/domain"
)

type mockGateway struct {
	parseEvent *domain.GatewayEvent
	parseErr   error
	sigSeen    string
}

func (m *mockGateway) CreateSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	return nil, errors.New("not used")
}

func (m *mockGateway) ParseWebhook(payload []byte, signature string) (*domain.GatewayEvent, error) {
	m.sigSeen = signature
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return m.parseEvent, nil
}

func (m *mockGateway) SessionStatus(ctx context.Context, sessionID string) (*domain.SessionStatus, error) {
	return nil, errors.New("not used")
}

type mockReconcileService struct {
	applyErr  error
	applied   []*domain.GatewayEvent
	pullState *domain.ReconcileState
	pullErr   error
}

func (m *mockReconcileService) HandleGatewayEvent(ctx context.Context, event *domain.GatewayEvent) error {
	m.applied = append(m.applied, event)
	return m.applyErr
}

func (m *mockReconcileService) PullReconcile(ctx context.Context, sessionID string) (*domain.ReconcileState, error) {
	if m.pullErr != nil {
		return nil, m.pullErr
	}
	return m.pullState, nil
}

func webhookRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	return req
}

func TestPaymentController_Webhook_InvalidSignature(t *testing.T) {
	gw := &mockGateway{parseErr: domain.ErrGateway}
	rc := &mockReconcileService{}
	ctrl := NewPaymentController(testControllerLogger(), gw, rc)

	w := httptest.NewRecorder()
	ctrl.Webhook(w, webhookRequest(`{"type":"checkout.session.completed"}`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if gw.sigSeen != "t=1,v1=abc" {
		t.Fatalf("expected signature header to reach the gateway, got %q", gw.sigSeen)
	}
	if len(rc.applied) != 0 {
		t.Fatalf("expected no events applied after signature failure, got %d", len(rc.applied))
	}
}

func TestPaymentController_Webhook_ApplyFailure(t *testing.T) {
	gw := &mockGateway{parseEvent: &domain.GatewayEvent{
		Kind:      domain.GatewayCheckoutCompleted,
		SessionID: "cs_123",
	}}
	rc := &mockReconcileService{applyErr: errors.New("write failed")}
	ctrl := NewPaymentController(testControllerLogger(), gw, rc)

	w := httptest.NewRecorder()
	ctrl.Webhook(w, webhookRequest(`{"type":"checkout.session.completed"}`))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeInternalError {
		t.Fatalf("expected error code %q, got %+v", helpers.ErrCodeInternalError, resp.Error)
	}
}

func TestPaymentController_Webhook_Success(t *testing.T) {
	gw := &mockGateway{parseEvent: &domain.GatewayEvent{
		Kind:      domain.GatewayCheckoutCompleted,
		SessionID: "cs_123",
	}}
	rc := &mockReconcileService{}
	ctrl := NewPaymentController(testControllerLogger(), gw, rc)

	w := httptest.NewRecorder()
	ctrl.Webhook(w, webhookRequest(`{"type":"checkout.session.completed"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if len(rc.applied) != 1 || rc.applied[0].SessionID != "cs_123" {
		t.Fatalf("expected decoded event applied once, got %+v", rc.applied)
	}
}

func TestPaymentController_ReconcileSession(t *testing.T) {
	t.Run("missing session_id", func(t *testing.T) {
		ctrl := NewPaymentController(testControllerLogger(), &mockGateway{}, &mockReconcileService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/payments/reconcile", nil)
		ctrl.ReconcileSession(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		rc := &mockReconcileService{pullErr: domain.ErrNotFound}
		ctrl := NewPaymentController(testControllerLogger(), &mockGateway{}, rc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/payments/reconcile?session_id=cs_missing", nil)
		ctrl.ReconcileSession(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("settled", func(t *testing.T) {
		rc := &mockReconcileService{pullState: &domain.ReconcileState{
			Payment:     &domain.Payment{ID: "pay-1", Status: domain.PaymentSuccess},
			Participant: &domain.Participant{ID: "pt-1", Status: domain.JoinAccepted},
		}}
		ctrl := NewPaymentController(testControllerLogger(), &mockGateway{}, rc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/payments/reconcile?session_id=cs_123", nil)
		ctrl.ReconcileSession(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		var resp helpers.APIResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Error != nil {
			t.Fatalf("expected no error, got %v", resp.Error)
		}
	})
}
