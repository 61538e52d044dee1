package models

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TagIdentity string
type Currency string
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "CASH"
	PaymentMethodSumup PaymentMethod = "SUMUP"
	PaymentMethodTag   PaymentMethod = "TAG"

	CurrencyEUR Currency = "EUR"

	// amounts are fixed point with cent precision
	AmountScale = 2

	maxTagLength = 20
)

var (
	ErrMissingTag            = errors.New("tag identity is required")
	ErrInvalidTag            = errors.New("tag identity must be hexadecimal")
	ErrNonPositiveAmount     = errors.New("amount must be greater than zero")
	ErrAmountPrecision       = errors.New("amount has more than two decimal places")
	ErrInvalidCurrency       = errors.New("invalid currency")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrMissingIdempotencyKey = errors.New("idempotency key is required")
	ErrMissingTerminal       = errors.New("terminal id is required")
	ErrMissingOperator       = errors.New("operator id is required")
	ErrMissingCreatedAt      = errors.New("created at is required")
)

// ParseTagIdentity normalizes a UID as delivered by a tag reader.
func ParseTagIdentity(raw string) (TagIdentity, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.ToUpper(s)
	if s == "" {
		return "", ErrMissingTag
	}
	if len(s) > maxTagLength {
		return "", fmt.Errorf("%w: %q is too long", ErrInvalidTag, raw)
	}
	if _, err := hex.DecodeString(evenHex(s)); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTag, raw)
	}
	return TagIdentity(s), nil
}

func evenHex(s string) string {
	if len(s)%2 == 1 {
		return "0" + s
	}
	return s
}

func (c Currency) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodSumup, PaymentMethodTag:
		return true
	default:
		return false
	}
}

// TopUpParams are the raw inputs of a NewTopUp.
type TopUpParams struct {
	Tag            TagIdentity
	Amount         decimal.Decimal
	Currency       Currency
	PaymentMethod  PaymentMethod
	IdempotencyKey string
	TerminalID     string
	OperatorID     string
	CreatedAt      time.Time
}

func (p TopUpParams) Validate() error {
	if p.Tag == "" {
		return ErrMissingTag
	}
	if !p.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !p.Amount.Equal(p.Amount.Truncate(AmountScale)) {
		return ErrAmountPrecision
	}
	if !p.Currency.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, p.Currency)
	}
	if !p.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, p.PaymentMethod)
	}
	if strings.TrimSpace(p.IdempotencyKey) == "" {
		return ErrMissingIdempotencyKey
	}
	if p.TerminalID == "" {
		return ErrMissingTerminal
	}
	if p.OperatorID == "" {
		return ErrMissingOperator
	}
	if p.CreatedAt.IsZero() {
		return ErrMissingCreatedAt
	}
	return nil
}

// NewTopUp is a proposed top-up. It can only be obtained through NewNewTopUp,
// so every value in circulation has passed validation and none can be
// altered afterwards.
type NewTopUp struct {
	p TopUpParams
}

func NewNewTopUp(p TopUpParams) (NewTopUp, error) {
	if err := p.Validate(); err != nil {
		return NewTopUp{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return NewTopUp{p: p}, nil
}

func (t NewTopUp) Tag() TagIdentity { return t.p.Tag }
func (t NewTopUp) Amount() decimal.Decimal { return t.p.Amount }
func (t NewTopUp) Currency() Currency { return t.p.Currency }
func (t NewTopUp) PaymentMethod() PaymentMethod { return t.p.PaymentMethod }
func (t NewTopUp) IdempotencyKey() string { return t.p.IdempotencyKey }
func (t NewTopUp) TerminalID() string { return t.p.TerminalID }
func (t NewTopUp) OperatorID() string { return t.p.OperatorID }
func (t NewTopUp) CreatedAt() time.Time { return t.p.CreatedAt }
func (t NewTopUp) Params() TopUpParams { return t.p }
func (t NewTopUp) IsZero() bool { return t.p.IdempotencyKey == "" }

// RequestHash binds an idempotency key to the exact request it was issued
// for. createdAt is not part of it.
func (t NewTopUp) RequestHash() string {
	canonical := strings.Join([]string{
		string(t.p.Tag),
		t.p.Amount.StringFixed(AmountScale),
		string(t.p.Currency),
		string(t.p.PaymentMethod),
		t.p.TerminalID,
		t.p.OperatorID,
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func (t NewTopUp) String() string {
	return fmt.Sprintf("top-up %s of %s %s for tag %s", t.p.IdempotencyKey, t.p.Amount.StringFixed(AmountScale), t.p.Currency, t.p.Tag)
}

// PendingTopUp is the ledger's acknowledgment that a NewTopUp passed
// validation. It does not mean the book will succeed.
type PendingTopUp struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Tag            TagIdentity     `json:"tag"`
	AccountID      uint            `json:"account_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	OldBalance     decimal.Decimal `json:"old_balance"`
	NewBalance     decimal.Decimal `json:"new_balance"`
	CheckToken     string          `json:"check_token"`
	ValidUntil     time.Time       `json:"valid_until"`
}

func (p PendingTopUp) Expired(now time.Time) bool {
	return !p.ValidUntil.IsZero() && now.After(p.ValidUntil)
}

// CompletedTopUp is the ledger's acknowledgment that the balance mutation
// committed. Terminal state for its idempotency key.
type CompletedTopUp struct {
	TransactionID    string          `json:"transaction_id"`
	IdempotencyKey   string          `json:"idempotency_key"`
	Tag              TagIdentity     `json:"tag"`
	AccountID        uint            `json:"account_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         Currency        `json:"currency"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	OldBalance       decimal.Decimal `json:"old_balance"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	TerminalID       string          `json:"terminal_id"`
	OperatorID       string          `json:"operator_id"`
	CommittedAt      time.Time       `json:"committed_at"`
}
