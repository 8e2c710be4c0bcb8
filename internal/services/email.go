package services

import (
	"context"
	"fmt"
	"log"

	"eventmarket/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendPaymentReceipt sends the receipt email using the "payment_receipt" template.
func (s *emailService) SendPaymentReceipt(ctx context.Context, data *domain.PaymentReceiptEmailData) error {
	if data == nil {
		return fmt.Errorf("payment receipt data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("payment_receipt", data)
	if err != nil {
		return fmt.Errorf("failed to render payment_receipt template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send payment receipt email: %w", err)
	}
	log.Printf("[EMAIL] Payment receipt sent to %s", data.Email)
	return nil
}

// SendHostApplicationDecision sends the approval or rejection email using the
// "host_application_decision" template.
func (s *emailService) SendHostApplicationDecision(ctx context.Context, data *domain.HostApplicationDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("host application decision data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("host_application_decision", data)
	if err != nil {
		return fmt.Errorf("failed to render host_application_decision template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send host application decision email: %w", err)
	}
	log.Printf("[EMAIL] Host application decision sent to %s", data.Email)
	return nil
}
