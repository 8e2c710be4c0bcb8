package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// PaymentReceiptEmailData holds data for the payment receipt email sent after
// a checkout settles.
type PaymentReceiptEmailData struct {
	Email      string
	EventTitle string
	Amount     int64
	Currency   string
	PaymentID  string
}

// HostApplicationDecisionEmailData holds data for the host application
// decision email.
type HostApplicationDecisionEmailData struct {
	Email    string
	Name     string
	Approved bool
	Feedback string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendPaymentReceipt(ctx context.Context, data *PaymentReceiptEmailData) error
	SendHostApplicationDecision(ctx context.Context, data *HostApplicationDecisionEmailData) error
}
