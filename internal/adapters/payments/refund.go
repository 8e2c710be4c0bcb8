package payments

import (
	"context"
	"log/slog"

	"eventmarket/internal/domain"
)

// refundLogger records refund requests for manual settlement. Automatic
// refund execution is intentionally not wired to the gateway.
type refundLogger struct {
	logger *slog.Logger
}

func NewRefundLogger(logger *slog.Logger) domain.RefundRequester {
	return &refundLogger{logger: logger}
}

func (r *refundLogger) RequestRefund(ctx context.Context, payment *domain.Payment) error {
	r.logger.Info("refund requested",
		"payment_id", payment.ID,
		"event_id", payment.EventID,
		"payer_id", payment.PayerID,
		"amount", payment.Amount,
		"currency", payment.Currency,
	)
	return nil
}
