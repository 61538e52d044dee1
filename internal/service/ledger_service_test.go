package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/repository/memory"
	"github.com/jeffleon2/draftea-topup/internal/service"
	"github.com/jeffleon2/draftea-topup/internal/service/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var ledgerCfg = config.Ledger{
	Currency:          "EUR",
	MinTopUp:          decimal.RequireFromString("1.00"),
	MaxAccountBalance: decimal.RequireFromString("150.00"),
	CheckValidity:     5 * time.Minute,
	TokenSecret:       "secret",
}

var till = &models.Terminal{ID: "till-1", Token: "tok-1", AllowTopUp: true}

func newStore() *memory.Store {
	store := memory.New()
	store.AddTerminal(*till)
	store.AddTerminal(models.Terminal{ID: "bar-1", Token: "tok-bar"})
	store.AddAccount(models.Account{TagUID: "04AA", Name: "alice"})
	store.AddAccount(models.Account{TagUID: "04BB", Name: "bob", Balance: decimal.RequireFromString("145.00")})
	store.AddAccount(models.Account{TagUID: "04CC", Name: "carol", Blocked: true})
	return store
}

func newTopUp(t *testing.T, key string, tag models.TagIdentity, amount string, mutate ...func(*models.TopUpParams)) models.NewTopUp {
	t.Helper()
	p := models.TopUpParams{
		Tag:            tag,
		Amount:         decimal.RequireFromString(amount),
		Currency:       models.CurrencyEUR,
		PaymentMethod:  models.PaymentMethodCash,
		IdempotencyKey: key,
		TerminalID:     "till-1",
		OperatorID:     "op-1",
		CreatedAt:      time.Now(),
	}
	for _, m := range mutate {
		m(&p)
	}
	n, err := models.NewNewTopUp(p)
	require.NoError(t, err)
	return n
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, code, verr.Code)
}

func TestAuthenticate(t *testing.T) {
	svc := service.NewLedgerService(newStore(), mocks.NewMockPublisher(t), ledgerCfg)
	ctx := context.Background()

	term, err := svc.Authenticate(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "till-1", term.ID)

	_, err = svc.Authenticate(ctx, "bogus")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthenticate_StoreError(t *testing.T) {
	store := mocks.NewMockTopUpStore(t)
	svc := service.NewLedgerService(store, mocks.NewMockPublisher(t), ledgerCfg)
	ctx := context.Background()

	store.EXPECT().TerminalByToken(ctx, "tok-1").Return(nil, errors.New("db down")).Once()

	_, err := svc.Authenticate(ctx, "tok-1")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrUnauthorized)
}

func TestCheckTopUp_Success(t *testing.T) {
	now := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	svc := service.NewLedgerService(newStore(), mocks.NewMockPublisher(t), ledgerCfg).WithClock(func() time.Time { return now })

	pending, err := svc.CheckTopUp(context.Background(), till, newTopUp(t, "K1", "04AA", "10.00"))

	require.NoError(t, err)
	assert.Equal(t, "K1", pending.IdempotencyKey)
	assert.True(t, pending.OldBalance.IsZero())
	assert.True(t, pending.NewBalance.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, now.Add(5*time.Minute), pending.ValidUntil)
	assert.Len(t, pending.CheckToken, 64)
}

func TestCheckTopUp_IsIdempotent(t *testing.T) {
	svc := service.NewLedgerService(newStore(), mocks.NewMockPublisher(t), ledgerCfg)
	topUp := newTopUp(t, "K1", "04AA", "10.00")

	first, err := svc.CheckTopUp(context.Background(), till, topUp)
	require.NoError(t, err)
	second, err := svc.CheckTopUp(context.Background(), till, topUp)
	require.NoError(t, err)

	assert.True(t, first.NewBalance.Equal(second.NewBalance))
	assert.Equal(t, first.AccountID, second.AccountID)
}

func TestCheckTopUp_Rules(t *testing.T) {
	bar := &models.Terminal{ID: "bar-1", Token: "tok-bar"}
	tests := []struct {
		name     string
		terminal *models.Terminal
		topUp    func(t *testing.T) models.NewTopUp
		code     string
		reason   string
	}{
		{
			name:     "paid with tag",
			terminal: till,
			topUp: func(t *testing.T) models.NewTopUp {
				return newTopUp(t, "K1", "04AA", "10.00", func(p *models.TopUpParams) { p.PaymentMethod = models.PaymentMethodTag })
			},
			code: models.CodePaymentMethod,
		},
		{
			name:     "terminal not allowed",
			terminal: bar,
			topUp: func(t *testing.T) models.NewTopUp {
				return newTopUp(t, "K1", "04AA", "10.00", func(p *models.TopUpParams) { p.TerminalID = "bar-1" })
			},
			code: models.CodeTerminalNotAllowed,
		},
		{
			name:     "terminal mismatch",
			terminal: till,
			topUp: func(t *testing.T) models.NewTopUp {
				return newTopUp(t, "K1", "04AA", "10.00", func(p *models.TopUpParams) { p.TerminalID = "till-2" })
			},
			code: models.CodeTerminalMismatch,
		},
		{
			name:     "foreign currency",
			terminal: till,
			topUp: func(t *testing.T) models.NewTopUp {
				return newTopUp(t, "K1", "04AA", "10.00", func(p *models.TopUpParams) { p.Currency = "USD" })
			},
			code: models.CodeInvalidCurrency,
		},
		{
			name:     "below minimum",
			terminal: till,
			topUp:    func(t *testing.T) models.NewTopUp { return newTopUp(t, "K1", "04AA", "0.50") },
			code:     models.CodeMinTopUp,
		},
		{
			name:     "unknown tag",
			terminal: till,
			topUp:    func(t *testing.T) models.NewTopUp { return newTopUp(t, "K1", "FFFF", "10.00") },
			code:     models.CodeAccountNotFound,
		},
		{
			name:     "blocked account",
			terminal: till,
			topUp:    func(t *testing.T) models.NewTopUp { return newTopUp(t, "K1", "04CC", "10.00") },
			code:     models.CodeAccountBlocked,
		},
		{
			name:     "max balance",
			terminal: till,
			topUp:    func(t *testing.T) models.NewTopUp { return newTopUp(t, "K1", "04BB", "10.00") },
			code:     models.CodeMaxBalance,
			reason:   "max account balance of 150.00 EUR exceeded by 5.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewLedgerService(newStore(), mocks.NewMockPublisher(t), ledgerCfg)

			_, err := svc.CheckTopUp(context.Background(), tt.terminal, tt.topUp(t))

			assertCode(t, err, tt.code)
			if tt.reason != "" {
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.reason, verr.Reason)
			}
		})
	}
}

func TestCheckTopUp_AfterBook(t *testing.T) {
	publisher := mocks.NewMockPublisher(t)
	svc := service.NewLedgerService(newStore(), publisher, ledgerCfg)
	ctx := context.Background()
	topUp := newTopUp(t, "K1", "04AA", "10.00")

	publisher.EXPECT().Publish(ctx, models.TopUpBookedTopic, mock.AnythingOfType("models.TopUpBookedEvent")).Return(nil).Once()
	_, _, err := svc.BookTopUp(ctx, till, topUp)
	require.NoError(t, err)

	_, err = svc.CheckTopUp(ctx, till, topUp)
	assertCode(t, err, models.CodeAlreadyBooked)

	_, err = svc.CheckTopUp(ctx, till, newTopUp(t, "K1", "04AA", "20.00"))
	assertCode(t, err, models.CodeKeyReused)
}

func TestBookTopUp_CommitsAndPublishes(t *testing.T) {
	store := newStore()
	publisher := mocks.NewMockPublisher(t)
	svc := service.NewLedgerService(store, publisher, ledgerCfg)
	ctx := context.Background()

	publisher.EXPECT().
		Publish(ctx, models.TopUpBookedTopic, mock.MatchedBy(func(e models.TopUpBookedEvent) bool {
			return e.IdempotencyKey == "K1" && e.ResultingBalance.Equal(decimal.RequireFromString("10"))
		})).
		Return(nil).
		Once()

	completed, replayed, err := svc.BookTopUp(ctx, till, newTopUp(t, "K1", "04AA", "10.00"))

	require.NoError(t, err)
	assert.False(t, replayed)
	assert.NotEmpty(t, completed.TransactionID)
	assert.True(t, completed.ResultingBalance.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, "op-1", completed.OperatorID)
	assert.Equal(t, 1, store.BookingCount())
}

func TestBookTopUp_ReplayReturnsOriginal(t *testing.T) {
	store := newStore()
	publisher := mocks.NewMockPublisher(t)
	svc := service.NewLedgerService(store, publisher, ledgerCfg)
	ctx := context.Background()
	topUp := newTopUp(t, "K1", "04AA", "10.00")

	publisher.EXPECT().Publish(ctx, models.TopUpBookedTopic, mock.Anything).Return(nil).Once()

	first, _, err := svc.BookTopUp(ctx, till, topUp)
	require.NoError(t, err)
	second, replayed, err := svc.BookTopUp(ctx, till, topUp)
	require.NoError(t, err)

	assert.True(t, replayed)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.BookingCount())
	account, err := store.AccountByTag(ctx, "04AA")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("10")))
}

func TestBookTopUp_ReplayIgnoresLaterRuleChanges(t *testing.T) {
	store := newStore()
	publisher := mocks.NewMockPublisher(t)
	svc := service.NewLedgerService(store, publisher, ledgerCfg)
	ctx := context.Background()
	topUp := newTopUp(t, "K1", "04AA", "10.00")

	publisher.EXPECT().Publish(ctx, models.TopUpBookedTopic, mock.Anything).Return(nil).Once()
	_, _, err := svc.BookTopUp(ctx, till, topUp)
	require.NoError(t, err)
	require.NoError(t, store.SetBlocked("04AA", true))

	_, replayed, err := svc.BookTopUp(ctx, till, topUp)

	require.NoError(t, err)
	assert.True(t, replayed)
}

func TestBookTopUp_KeyReusedForDifferentPayload(t *testing.T) {
	publisher := mocks.NewMockPublisher(t)
	svc := service.NewLedgerService(newStore(), publisher, ledgerCfg)
	ctx := context.Background()

	publisher.EXPECT().Publish(ctx, models.TopUpBookedTopic, mock.Anything).Return(nil).Once()
	_, _, err := svc.BookTopUp(ctx, till, newTopUp(t, "K1", "04AA", "10.00"))
	require.NoError(t, err)

	_, _, err = svc.BookTopUp(ctx, till, newTopUp(t, "K1", "04AA", "12.00"))

	assertCode(t, err, models.CodeKeyReused)
}

func TestBookTopUp_StateChangedSinceCheck(t *testing.T) {
	store := newStore()
	svc := service.NewLedgerService(store, mocks.NewMockPublisher(t), ledgerCfg)
	ctx := context.Background()
	topUp := newTopUp(t, "K1", "04AA", "10.00")

	_, err := svc.CheckTopUp(ctx, till, topUp)
	require.NoError(t, err)
	require.NoError(t, store.SetBlocked("04AA", true))

	_, _, err = svc.BookTopUp(ctx, till, topUp)

	assertCode(t, err, models.CodeAccountBlocked)
	assert.Equal(t, 0, store.BookingCount())
}

func TestBookTopUp_PublishFailureDoesNotFailBooking(t *testing.T) {
	store := newStore()
	publisher := mocks.NewMockPublisher(t)
	svc := service.NewLedgerService(store, publisher, ledgerCfg)
	ctx := context.Background()

	publisher.EXPECT().Publish(ctx, models.TopUpBookedTopic, mock.Anything).Return(errors.New("kafka down")).Once()

	_, replayed, err := svc.BookTopUp(ctx, till, newTopUp(t, "K1", "04AA", "10.00"))

	assert.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, 1, store.BookingCount())
}

func TestBookTopUp_ConcurrentDuplicateCommitsOnce(t *testing.T) {
	store := newStore()
	publisher := mocks.NewMockPublisher(t)
	svc := service.NewLedgerService(store, publisher, ledgerCfg)
	ctx := context.Background()
	topUp := newTopUp(t, "K1", "04AA", "10.00")

	publisher.EXPECT().Publish(ctx, models.TopUpBookedTopic, mock.Anything).Return(nil).Once()

	var wg sync.WaitGroup
	results := make([]models.CompletedTopUp, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, _, err := svc.BookTopUp(ctx, till, topUp)
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0].TransactionID, r.TransactionID)
	}
	assert.Equal(t, 1, store.BookingCount())
}

func TestBookTopUp_LosesInsertRace(t *testing.T) {
	store := mocks.NewMockTopUpStore(t)
	svc := service.NewLedgerService(store, mocks.NewMockPublisher(t), ledgerCfg)
	ctx := context.Background()
	topUp := newTopUp(t, "K1", "04AA", "10.00")
	winner := &models.Booking{IdempotencyKey: "K1", RequestHash: topUp.RequestHash(), NewBalance: decimal.RequireFromString("10")}

	store.EXPECT().BookingByKey(ctx, "K1").Return(nil, models.ErrBookingNotFound).Once()
	store.EXPECT().CommitBooking(ctx, models.TagIdentity("04AA"), "K1", mock.Anything).Return(nil, false, models.ErrDuplicateBooking).Once()
	store.EXPECT().BookingByKey(ctx, "K1").Return(winner, nil).Once()

	completed, replayed, err := svc.BookTopUp(ctx, till, topUp)

	require.NoError(t, err)
	assert.True(t, replayed)
	assert.True(t, completed.ResultingBalance.Equal(decimal.RequireFromString("10")))
}

func TestBookTopUp_StoreFailure(t *testing.T) {
	store := mocks.NewMockTopUpStore(t)
	publisher := mocks.NewMockPublisher(t)
	svc := service.NewLedgerService(store, publisher, ledgerCfg)
	ctx := context.Background()
	dbErr := errors.New("connection lost")

	store.EXPECT().BookingByKey(ctx, "K1").Return(nil, models.ErrBookingNotFound).Once()
	store.EXPECT().CommitBooking(ctx, models.TagIdentity("04AA"), "K1", mock.Anything).Return(nil, false, dbErr).Once()

	_, _, err := svc.BookTopUp(ctx, till, newTopUp(t, "K1", "04AA", "10.00"))

	assert.ErrorIs(t, err, dbErr)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
