package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Validation codes returned by the ledger.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodePaymentMethod      = "PAYMENT_METHOD"
	CodeTerminalNotAllowed = "TERMINAL_NOT_ALLOWED"
	CodeTerminalMismatch   = "TERMINAL_MISMATCH"
	CodeInvalidCurrency    = "INVALID_CURRENCY"
	CodeMinTopUp           = "MIN_TOP_UP"
	CodeAlreadyBooked      = "ALREADY_BOOKED"
	CodeKeyReused          = "KEY_REUSED"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeAccountBlocked     = "ACCOUNT_BLOCKED"
	CodeMaxBalance         = "MAX_BALANCE"
)

var (
	ErrDuplicateBooking = errors.New("booking already exists for idempotency key")
	ErrAccountNotFound  = errors.New("account not found")
	ErrTerminalNotFound = errors.New("terminal not found")
	ErrBookingNotFound  = errors.New("booking not found")
)

type Account struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TagUID    TagIdentity     `gorm:"type:varchar(20);uniqueIndex;not null" json:"tag_uid"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
	Blocked   bool            `gorm:"not null;default:false" json:"blocked"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Terminal struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name       string    `json:"name"`
	Token      string    `gorm:"uniqueIndex;not null" json:"-"`
	AllowTopUp bool      `gorm:"not null;default:false" json:"allow_top_up"`
	CreatedAt  time.Time `json:"created_at"`
}

// Booking is a committed top-up. IdempotencyKey is unique, which is what
// makes a second commit for the same key impossible.
type Booking struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	IdempotencyKey string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"idempotency_key"`
	RequestHash    string          `gorm:"type:char(64);not null" json:"request_hash"`
	AccountID      uint            `gorm:"index;not null" json:"account_id"`
	TagUID         TagIdentity     `gorm:"type:varchar(20);not null" json:"tag_uid"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency       Currency        `gorm:"type:char(3);not null" json:"currency"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(10);not null" json:"payment_method"`
	OldBalance     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"old_balance"`
	NewBalance     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"new_balance"`
	TerminalID     string          `gorm:"type:varchar(64);index;not null" json:"terminal_id"`
	OperatorID     string          `gorm:"type:varchar(64);not null" json:"operator_id"`
	CommittedAt    time.Time       `gorm:"not null" json:"committed_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CommittedAt.IsZero() {
		b.CommittedAt = time.Now().UTC()
	}
	return
}

func (b Booking) ToCompleted() CompletedTopUp {
	return CompletedTopUp{
		TransactionID:    b.ID.String(),
		IdempotencyKey:   b.IdempotencyKey,
		Tag:              b.TagUID,
		AccountID:        b.AccountID,
		Amount:           b.Amount,
		Currency:         b.Currency,
		PaymentMethod:    b.PaymentMethod,
		OldBalance:       b.OldBalance,
		ResultingBalance: b.NewBalance,
		TerminalID:       b.TerminalID,
		OperatorID:       b.OperatorID,
		CommittedAt:      b.CommittedAt,
	}
}
