package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jeffleon2/draftea-topup/internal/metrics"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/sirupsen/logrus"
)

// AuditHandler turns booked top-up events into metrics and an audit log.
type AuditHandler struct {
}

func NewAuditHandler() *AuditHandler {
	return &AuditHandler{}
}

func (h *AuditHandler) HandleEvents(ctx context.Context, topic string, value []byte) error {
	switch topic {
	case models.TopUpBookedTopic:
		var evt models.TopUpBookedEvent
		if err := json.Unmarshal(value, &evt); err != nil {
			logrus.Errorf("Error parsing top-up booked event %s", err.Error())
			return fmt.Errorf("error parsing top-up booked event %w", err)
		}
		if evt.TransactionID == "" || evt.IdempotencyKey == "" {
			return fmt.Errorf("top-up booked event without transaction id or key")
		}

		amount, _ := evt.Amount.Float64()
		metrics.TopUpsBookedTotal.WithLabelValues(string(evt.PaymentMethod)).Inc()
		metrics.TopUpAmounts.WithLabelValues(string(evt.Currency)).Observe(amount)
		metrics.TerminalLastBooking.WithLabelValues(evt.TerminalID).Set(float64(evt.CommittedAt.Unix()))

		logrus.WithFields(logrus.Fields{
			"transaction_id":  evt.TransactionID,
			"idempotency_key": evt.IdempotencyKey,
			"tag":             evt.Tag,
			"terminal_id":     evt.TerminalID,
			"operator_id":     evt.OperatorID,
			"amount":          evt.Amount.StringFixed(models.AmountScale),
			"balance":         evt.ResultingBalance.StringFixed(models.AmountScale),
		}).Info("audit: top-up booked")
	default:
		logrus.Errorf("topic not allowed %s", topic)
		return fmt.Errorf("topic not allowed %s", topic)
	}

	return nil
}
