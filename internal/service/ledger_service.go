package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TopUpStore is the ledger's persistence.
type TopUpStore interface {
	TerminalByToken(ctx context.Context, token string) (*models.Terminal, error)
	AccountByTag(ctx context.Context, tag models.TagIdentity) (*models.Account, error)
	BookingByKey(ctx context.Context, key string) (*models.Booking, error)
	// CommitBooking locks the account of tag and, unless a booking for key
	// already exists, asks decide for the booking to store and applies its
	// NewBalance to the account, all in one transaction. An existing booking
	// is returned with replayed set and decide is not called.
	CommitBooking(ctx context.Context, tag models.TagIdentity, key string, decide func(account models.Account) (*models.Booking, error)) (booking *models.Booking, replayed bool, err error)
}

// Publisher defines the interface for publishing events to Kafka topics.
type Publisher interface {
	Publish(ctx context.Context, topic string, message interface{}) error
}

// LedgerService validates and books top-ups. Booking is idempotent per key:
// the first commit wins and every later book with the same key and payload
// gets the stored result back.
type LedgerService struct {
	Store     TopUpStore
	Publisher Publisher

	currency   models.Currency
	minTopUp   decimal.Decimal
	maxBalance decimal.Decimal
	validity   time.Duration
	secret     []byte
	now        func() time.Time
}

func NewLedgerService(store TopUpStore, publisher Publisher, cfg config.Ledger) *LedgerService {
	return &LedgerService{
		Store:      store,
		Publisher:  publisher,
		currency:   models.Currency(cfg.Currency),
		minTopUp:   cfg.MinTopUp,
		maxBalance: cfg.MaxAccountBalance,
		validity:   cfg.CheckValidity,
		secret:     []byte(cfg.TokenSecret),
		now:        time.Now,
	}
}

// WithClock replaces the service clock, for tests.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// Authenticate resolves the terminal behind a bearer token.
func (s *LedgerService) Authenticate(ctx context.Context, token string) (*models.Terminal, error) {
	if token == "" {
		return nil, models.ErrUnauthorized
	}
	terminal, err := s.Store.TerminalByToken(ctx, token)
	if errors.Is(err, models.ErrTerminalNotFound) {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("looking up terminal: %w", err)
	}
	return terminal, nil
}

// CheckTopUp runs every booking rule against the current account state
// without changing anything.
func (s *LedgerService) CheckTopUp(ctx context.Context, terminal *models.Terminal, topUp models.NewTopUp) (models.PendingTopUp, error) {
	if err := s.validateRequest(terminal, topUp); err != nil {
		return models.PendingTopUp{}, err
	}

	existing, err := s.Store.BookingByKey(ctx, topUp.IdempotencyKey())
	switch {
	case err == nil:
		if existing.RequestHash != topUp.RequestHash() {
			return models.PendingTopUp{}, keyReused(topUp)
		}
		return models.PendingTopUp{}, models.NewValidationError(models.CodeAlreadyBooked,
			"top-up %s was already booked", topUp.IdempotencyKey())
	case !errors.Is(err, models.ErrBookingNotFound):
		return models.PendingTopUp{}, fmt.Errorf("looking up booking: %w", err)
	}

	account, err := s.Store.AccountByTag(ctx, topUp.Tag())
	if errors.Is(err, models.ErrAccountNotFound) {
		return models.PendingTopUp{}, accountNotFound(topUp)
	}
	if err != nil {
		return models.PendingTopUp{}, fmt.Errorf("looking up account: %w", err)
	}

	newBalance, err := s.applyTo(*account, topUp)
	if err != nil {
		return models.PendingTopUp{}, err
	}

	validUntil := s.now().UTC().Add(s.validity)
	return models.PendingTopUp{
		IdempotencyKey: topUp.IdempotencyKey(),
		Tag:            topUp.Tag(),
		AccountID:      account.ID,
		Amount:         topUp.Amount(),
		Currency:       topUp.Currency(),
		PaymentMethod:  topUp.PaymentMethod(),
		OldBalance:     account.Balance,
		NewBalance:     newBalance,
		CheckToken:     s.checkToken(topUp, validUntil),
		ValidUntil:     validUntil,
	}, nil
}

// BookTopUp commits topUp. replayed is set when the key was booked before
// and the stored result is returned instead.
func (s *LedgerService) BookTopUp(ctx context.Context, terminal *models.Terminal, topUp models.NewTopUp) (models.CompletedTopUp, bool, error) {
	log := logrus.WithFields(logrus.Fields{
		"idempotency_key": topUp.IdempotencyKey(),
		"terminal_id":     terminal.ID,
	})

	if topUp.TerminalID() != terminal.ID {
		return models.CompletedTopUp{}, false, terminalMismatch(terminal, topUp)
	}

	existing, err := s.Store.BookingByKey(ctx, topUp.IdempotencyKey())
	switch {
	case err == nil:
		return s.replay(existing, topUp)
	case !errors.Is(err, models.ErrBookingNotFound):
		return models.CompletedTopUp{}, false, fmt.Errorf("looking up booking: %w", err)
	}

	if err := s.validateRequest(terminal, topUp); err != nil {
		return models.CompletedTopUp{}, false, err
	}

	booking, replayed, err := s.Store.CommitBooking(ctx, topUp.Tag(), topUp.IdempotencyKey(), func(account models.Account) (*models.Booking, error) {
		newBalance, err := s.applyTo(account, topUp)
		if err != nil {
			return nil, err
		}
		return &models.Booking{
			IdempotencyKey: topUp.IdempotencyKey(),
			RequestHash:    topUp.RequestHash(),
			AccountID:      account.ID,
			TagUID:         topUp.Tag(),
			Amount:         topUp.Amount(),
			Currency:       topUp.Currency(),
			PaymentMethod:  topUp.PaymentMethod(),
			OldBalance:     account.Balance,
			NewBalance:     newBalance,
			TerminalID:     topUp.TerminalID(),
			OperatorID:     topUp.OperatorID(),
			CommittedAt:    s.now().UTC(),
		}, nil
	})
	switch {
	case errors.Is(err, models.ErrAccountNotFound):
		return models.CompletedTopUp{}, false, accountNotFound(topUp)
	case errors.Is(err, models.ErrDuplicateBooking):
		// lost a race against a concurrent book with the same key
		existing, lookupErr := s.Store.BookingByKey(ctx, topUp.IdempotencyKey())
		if lookupErr != nil {
			return models.CompletedTopUp{}, false, fmt.Errorf("loading concurrent booking: %w", lookupErr)
		}
		return s.replay(existing, topUp)
	case err != nil:
		return models.CompletedTopUp{}, false, err
	}
	if replayed {
		return s.replay(booking, topUp)
	}

	completed := booking.ToCompleted()
	log.WithFields(logrus.Fields{
		"transaction_id": completed.TransactionID,
		"amount":         completed.Amount.StringFixed(models.AmountScale),
		"balance":        completed.ResultingBalance.StringFixed(models.AmountScale),
	}).Info("top-up booked")

	if err := s.Publisher.Publish(ctx, models.TopUpBookedTopic, models.NewTopUpBookedEvent(completed)); err != nil {
		log.Errorf("failed to publish booked event: %v", err)
	}
	return completed, false, nil
}

func (s *LedgerService) replay(existing *models.Booking, topUp models.NewTopUp) (models.CompletedTopUp, bool, error) {
	if existing.RequestHash != topUp.RequestHash() {
		return models.CompletedTopUp{}, false, keyReused(topUp)
	}
	logrus.WithField("idempotency_key", topUp.IdempotencyKey()).Info("replaying booked top-up")
	return existing.ToCompleted(), true, nil
}

// validateRequest applies the rules that do not depend on account state.
func (s *LedgerService) validateRequest(terminal *models.Terminal, topUp models.NewTopUp) error {
	if topUp.PaymentMethod() == models.PaymentMethodTag {
		return models.NewValidationError(models.CodePaymentMethod, "a top-up cannot be paid with a tag")
	}
	if !terminal.AllowTopUp {
		return models.NewValidationError(models.CodeTerminalNotAllowed, "terminal %s is not allowed to top up", terminal.ID)
	}
	if topUp.TerminalID() != terminal.ID {
		return terminalMismatch(terminal, topUp)
	}
	if topUp.Currency() != s.currency {
		return models.NewValidationError(models.CodeInvalidCurrency, "currency %s is not accepted, use %s", topUp.Currency(), s.currency)
	}
	if topUp.Amount().LessThan(s.minTopUp) {
		return models.NewValidationError(models.CodeMinTopUp, "minimum top-up is %s %s", s.minTopUp.StringFixed(models.AmountScale), s.currency)
	}
	return nil
}

// applyTo returns the balance account would have after topUp.
func (s *LedgerService) applyTo(account models.Account, topUp models.NewTopUp) (decimal.Decimal, error) {
	if account.Blocked {
		return decimal.Zero, models.NewValidationError(models.CodeAccountBlocked, "account for tag %s is blocked", topUp.Tag())
	}
	newBalance := account.Balance.Add(topUp.Amount())
	if newBalance.GreaterThan(s.maxBalance) {
		return decimal.Zero, models.NewValidationError(models.CodeMaxBalance,
			"max account balance of %s %s exceeded by %s",
			s.maxBalance.StringFixed(models.AmountScale), s.currency,
			newBalance.Sub(s.maxBalance).StringFixed(models.AmountScale))
	}
	return newBalance, nil
}

func (s *LedgerService) checkToken(topUp models.NewTopUp, validUntil time.Time) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(topUp.IdempotencyKey()))
	mac.Write([]byte{'|'})
	mac.Write([]byte(topUp.RequestHash()))
	mac.Write([]byte{'|'})
	mac.Write([]byte(strconv.FormatInt(validUntil.UnixNano(), 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func keyReused(topUp models.NewTopUp) error {
	return models.NewValidationError(models.CodeKeyReused,
		"idempotency key %s was already used for a different top-up", topUp.IdempotencyKey())
}

func accountNotFound(topUp models.NewTopUp) error {
	return models.NewValidationError(models.CodeAccountNotFound, "no account for tag %s", topUp.Tag())
}

func terminalMismatch(terminal *models.Terminal, topUp models.NewTopUp) error {
	return models.NewValidationError(models.CodeTerminalMismatch,
		"request names terminal %s but was sent by %s", topUp.TerminalID(), terminal.ID)
}
