// Package topup assembles NewTopUp values for one terminal.
package topup

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/shopspring/decimal"
)

// Context is the terminal and operator a request is made on behalf of.
type Context struct {
	TerminalID string
	OperatorID string
	Currency   models.Currency
}

type Builder struct {
	ctx    Context
	newKey func() string
	now    func() time.Time
}

type Option func(*Builder)

func WithKeyFunc(f func() string) Option {
	return func(b *Builder) { b.newKey = f }
}

func WithClock(f func() time.Time) Option {
	return func(b *Builder) { b.now = f }
}

func NewBuilder(ctx Context, opts ...Option) *Builder {
	b := &Builder{
		ctx:    ctx,
		newKey: func() string { return uuid.NewString() },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewTopUp starts a new attempt: every call gets a fresh idempotency key.
func (b *Builder) NewTopUp(tag models.TagIdentity, amount decimal.Decimal, method models.PaymentMethod) (models.NewTopUp, error) {
	return models.NewNewTopUp(models.TopUpParams{
		Tag:            tag,
		Amount:         amount,
		Currency:       b.ctx.Currency,
		PaymentMethod:  method,
		IdempotencyKey: b.newKey(),
		TerminalID:     b.ctx.TerminalID,
		OperatorID:     b.ctx.OperatorID,
		CreatedAt:      b.now(),
	})
}

// Reprice replaces the amount of prev. The result is a different attempt
// with its own key and has to be checked again.
func (b *Builder) Reprice(prev models.NewTopUp, amount decimal.Decimal) (models.NewTopUp, error) {
	return b.NewTopUp(prev.Tag(), amount, prev.PaymentMethod())
}
