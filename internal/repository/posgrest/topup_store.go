package posgrest

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffleon2/draftea-topup/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TopUpStore keeps accounts, terminals and bookings in a SQL database.
type TopUpStore struct {
	db        *gorm.DB
	accounts  *repository[models.Account]
	terminals *repository[models.Terminal]
	bookings  *repository[models.Booking]
}

func NewTopUpStore(db *gorm.DB) *TopUpStore {
	return &TopUpStore{
		db:        db,
		accounts:  New[models.Account](db),
		terminals: New[models.Terminal](db),
		bookings:  New[models.Booking](db),
	}
}

// Migrate creates or updates the ledger tables.
func (s *TopUpStore) Migrate() error {
	return s.db.AutoMigrate(&models.Account{}, &models.Terminal{}, &models.Booking{})
}

func (s *TopUpStore) TerminalByToken(ctx context.Context, token string) (*models.Terminal, error) {
	t, err := s.terminals.FindOne(ctx, "token = ?", token)
	if errors.Is(err, ErrNotFound) {
		return nil, models.ErrTerminalNotFound
	}
	return t, err
}

func (s *TopUpStore) AccountByTag(ctx context.Context, tag models.TagIdentity) (*models.Account, error) {
	a, err := s.accounts.FindOne(ctx, "tag_uid = ?", tag)
	if errors.Is(err, ErrNotFound) {
		return nil, models.ErrAccountNotFound
	}
	return a, err
}

func (s *TopUpStore) BookingByKey(ctx context.Context, key string) (*models.Booking, error) {
	b, err := s.bookings.FindOne(ctx, "idempotency_key = ?", key)
	if errors.Is(err, ErrNotFound) {
		return nil, models.ErrBookingNotFound
	}
	return b, err
}

// CommitBooking runs decide under a row lock on the account, so concurrent
// top-ups of one account are serialized. The unique index on the booking
// key turns a concurrent duplicate into models.ErrDuplicateBooking.
func (s *TopUpStore) CommitBooking(ctx context.Context, tag models.TagIdentity, key string, decide func(models.Account) (*models.Booking, error)) (*models.Booking, bool, error) {
	var (
		result   *models.Booking
		replayed bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tag_uid = ?", tag).
			First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrAccountNotFound
		}
		if err != nil {
			return fmt.Errorf("locking account: %w", err)
		}

		var existing models.Booking
		err = tx.Where("idempotency_key = ?", key).First(&existing).Error
		if err == nil {
			result, replayed = &existing, true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("looking up booking: %w", err)
		}

		booking, err := decide(account)
		if err != nil {
			return err
		}

		if err := tx.Create(booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrDuplicateBooking
			}
			return fmt.Errorf("inserting booking: %w", err)
		}

		err = tx.Model(&models.Account{}).
			Where("id = ?", account.ID).
			Update("balance", booking.NewBalance).Error
		if err != nil {
			return fmt.Errorf("updating balance: %w", err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, replayed, nil
}
