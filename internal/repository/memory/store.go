// Package memory is an in-process ledger store for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jeffleon2/draftea-topup/internal/models"
)

type Store struct {
	mu        sync.Mutex
	accounts  map[models.TagIdentity]*models.Account
	terminals map[string]*models.Terminal
	bookings  map[string]*models.Booking
	nextID    uint
}

func New() *Store {
	return &Store{
		accounts:  map[models.TagIdentity]*models.Account{},
		terminals: map[string]*models.Terminal{},
		bookings:  map[string]*models.Booking{},
	}
}

func (s *Store) AddAccount(a models.Account) *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		s.nextID++
		a.ID = s.nextID
	}
	s.accounts[a.TagUID] = &a
	out := a
	return &out
}

func (s *Store) AddTerminal(t models.Terminal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminals[t.Token] = &t
}

// SetBlocked flips the blocked flag of the account behind tag.
func (s *Store) SetBlocked(tag models.TagIdentity, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[tag]
	if !ok {
		return models.ErrAccountNotFound
	}
	a.Blocked = blocked
	return nil
}

// BookingCount is the number of committed bookings.
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *Store) TerminalByToken(ctx context.Context, token string) (*models.Terminal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.terminals[token]
	if !ok {
		return nil, models.ErrTerminalNotFound
	}
	out := *t
	return &out, nil
}

func (s *Store) AccountByTag(ctx context.Context, tag models.TagIdentity) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[tag]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	out := *a
	return &out, nil
}

func (s *Store) BookingByKey(ctx context.Context, key string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[key]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

// CommitBooking holds the store lock for the whole decision, which
// serializes all bookings.
func (s *Store) CommitBooking(ctx context.Context, tag models.TagIdentity, key string, decide func(models.Account) (*models.Booking, error)) (*models.Booking, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.bookings[key]; ok {
		out := *existing
		return &out, true, nil
	}
	account, ok := s.accounts[tag]
	if !ok {
		return nil, false, models.ErrAccountNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	booking, err := decide(*account)
	if err != nil {
		return nil, false, err
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	stored := *booking
	s.bookings[key] = &stored
	account.Balance = booking.NewBalance
	return booking, false, nil
}
