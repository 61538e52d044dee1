package topup_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/topup"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder() *topup.Builder {
	n := 0
	now := time.Date(2026, 8, 1, 18, 30, 0, 0, time.UTC)
	return topup.NewBuilder(
		topup.Context{TerminalID: "till-1", OperatorID: "op-7", Currency: models.CurrencyEUR},
		topup.WithKeyFunc(func() string { n++; return fmt.Sprintf("key-%d", n) }),
		topup.WithClock(func() time.Time { return now }),
	)
}

func TestBuilder_NewTopUp(t *testing.T) {
	b := newBuilder()

	got, err := b.NewTopUp("04AA", decimal.RequireFromString("20.00"), models.PaymentMethodCash)

	require.NoError(t, err)
	assert.Equal(t, "key-1", got.IdempotencyKey())
	assert.Equal(t, "till-1", got.TerminalID())
	assert.Equal(t, "op-7", got.OperatorID())
	assert.Equal(t, models.CurrencyEUR, got.Currency())
}

func TestBuilder_EachAttemptGetsFreshKey(t *testing.T) {
	b := newBuilder()

	first, err := b.NewTopUp("04AA", decimal.RequireFromString("20.00"), models.PaymentMethodCash)
	require.NoError(t, err)
	second, err := b.NewTopUp("04AA", decimal.RequireFromString("20.00"), models.PaymentMethodCash)
	require.NoError(t, err)

	assert.NotEqual(t, first.IdempotencyKey(), second.IdempotencyKey())
}

func TestBuilder_RepriceChangesKey(t *testing.T) {
	b := newBuilder()
	first, err := b.NewTopUp("04AA", decimal.RequireFromString("20.00"), models.PaymentMethodSumup)
	require.NoError(t, err)

	repriced, err := b.Reprice(first, decimal.RequireFromString("15.00"))

	require.NoError(t, err)
	assert.NotEqual(t, first.IdempotencyKey(), repriced.IdempotencyKey())
	assert.Equal(t, first.Tag(), repriced.Tag())
	assert.Equal(t, models.PaymentMethodSumup, repriced.PaymentMethod())
	assert.True(t, first.Amount().Equal(decimal.RequireFromString("20")), "original is untouched")
}

func TestBuilder_NegativeAmountNeverBuilt(t *testing.T) {
	b := newBuilder()

	_, err := b.NewTopUp("04AA", decimal.RequireFromString("-5.00"), models.PaymentMethodCash)

	assert.ErrorIs(t, err, models.ErrNonPositiveAmount)
}
