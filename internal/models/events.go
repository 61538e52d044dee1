package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopUpBookedTopic = "topups.booked"
	TopUpDLQTopic    = "topups.dlq"
)

type TopUpBookedEvent struct {
	TransactionID    string          `json:"transaction_id"`
	IdempotencyKey   string          `json:"idempotency_key"`
	AccountID        uint            `json:"account_id"`
	Tag              TagIdentity     `json:"tag"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         Currency        `json:"currency"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	TerminalID       string          `json:"terminal_id"`
	OperatorID       string          `json:"operator_id"`
	CommittedAt      time.Time       `json:"committed_at"`
}

func NewTopUpBookedEvent(c CompletedTopUp) TopUpBookedEvent {
	return TopUpBookedEvent{
		TransactionID:    c.TransactionID,
		IdempotencyKey:   c.IdempotencyKey,
		AccountID:        c.AccountID,
		Tag:              c.Tag,
		Amount:           c.Amount,
		Currency:         c.Currency,
		PaymentMethod:    c.PaymentMethod,
		ResultingBalance: c.ResultingBalance,
		TerminalID:       c.TerminalID,
		OperatorID:       c.OperatorID,
		CommittedAt:      c.CommittedAt,
	}
}

// EventKey keeps all events of one account on the same partition.
func (e TopUpBookedEvent) EventKey() string {
	return string(e.Tag)
}

type DLQMessage struct {
	OriginalTopic string    `json:"original_topic"`
	Key           string    `json:"key"`
	Value         string    `json:"value"`
	Error         string    `json:"error"`
	Timestamp     time.Time `json:"timestamp"`
	Attempts      int       `json:"attempts"`
}
