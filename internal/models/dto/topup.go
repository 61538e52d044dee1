package dto

import (
	"strings"
	"time"

	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/shopspring/decimal"
)

// TopUp is the wire form of a NewTopUp.
type TopUp struct {
	Tag            string          `json:"tag"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"payment_method"`
	IdempotencyKey string          `json:"idempotency_key"`
	TerminalID     string          `json:"terminal_id"`
	OperatorID     string          `json:"operator_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (t *TopUp) Sanitize() {
	t.Tag = strings.TrimSpace(t.Tag)
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
	t.PaymentMethod = strings.ToUpper(strings.TrimSpace(t.PaymentMethod))
	t.IdempotencyKey = strings.TrimSpace(t.IdempotencyKey)
	t.TerminalID = strings.TrimSpace(t.TerminalID)
	t.OperatorID = strings.TrimSpace(t.OperatorID)
}

func (t *TopUp) ToNewTopUp() (models.NewTopUp, error) {
	tag, err := models.ParseTagIdentity(t.Tag)
	if err != nil {
		return models.NewTopUp{}, err
	}
	return models.NewNewTopUp(models.TopUpParams{
		Tag:            tag,
		Amount:         t.Amount,
		Currency:       models.Currency(t.Currency),
		PaymentMethod:  models.PaymentMethod(t.PaymentMethod),
		IdempotencyKey: t.IdempotencyKey,
		TerminalID:     t.TerminalID,
		OperatorID:     t.OperatorID,
		CreatedAt:      t.CreatedAt,
	})
}

func FromNewTopUp(n models.NewTopUp) TopUp {
	return TopUp{
		Tag:            string(n.Tag()),
		Amount:         n.Amount(),
		Currency:       string(n.Currency()),
		PaymentMethod:  string(n.PaymentMethod()),
		IdempotencyKey: n.IdempotencyKey(),
		TerminalID:     n.TerminalID(),
		OperatorID:     n.OperatorID(),
		CreatedAt:      n.CreatedAt(),
	}
}
