package client

import (
	"context"
	"errors"
	"sync"

	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/sirupsen/logrus"
)

type State string

const (
	StateCreated   State = "CREATED"
	StateChecking  State = "CHECKING"
	StateChecked   State = "CHECKED"
	StateBooking   State = "BOOKING"
	StateCompleted State = "COMPLETED"
	StateRejected  State = "REJECTED"
	StateUnknown   State = "UNKNOWN"
	StateAborted   State = "ABORTED"
)

var (
	ErrAttemptBusy     = errors.New("a call is already in flight for this attempt")
	ErrNotChecked      = errors.New("attempt has not been checked")
	ErrCheckExpired    = errors.New("check result expired, check again")
	ErrAbortForbidden  = errors.New("attempt cannot be aborted once booking started")
	ErrAttemptFinished = errors.New("attempt already finished")
	ErrAttemptAborted  = errors.New("attempt was aborted")
	ErrOutcomeUnknown  = errors.New("attempt outcome unknown, replay the book")
)

// Journal records attempts whose book may have committed, so they survive
// a terminal restart.
type Journal interface {
	Track(topUp models.NewTopUp, state string) error
	Forget(idempotencyKey string) error
}

type noopJournal struct{}

func (noopJournal) Track(models.NewTopUp, string) error { return nil }
func (noopJournal) Forget(string) error                 { return nil }

// Attempt drives one NewTopUp through check and book. It allows at most one
// call in flight and never books before a check has resolved.
type Attempt struct {
	client *Client
	topUp  models.NewTopUp

	mu             sync.Mutex
	state          State
	pending        *models.PendingTopUp
	completed      *models.CompletedTopUp
	abortRequested bool
}

func (c *Client) NewAttempt(topUp models.NewTopUp) *Attempt {
	return &Attempt{client: c, topUp: topUp, state: StateCreated}
}

// ResumeAttempt rebuilds an attempt whose book outcome is unknown, for
// example from the journal after a restart. The only way forward is Book.
func (c *Client) ResumeAttempt(topUp models.NewTopUp) *Attempt {
	a := c.NewAttempt(topUp)
	a.state = StateUnknown
	return a
}

func (a *Attempt) TopUp() models.NewTopUp { return a.topUp }

func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Attempt) Pending() (models.PendingTopUp, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return models.PendingTopUp{}, false
	}
	return *a.pending, true
}

func (a *Attempt) Completed() (models.CompletedTopUp, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.completed == nil {
		return models.CompletedTopUp{}, false
	}
	return *a.completed, true
}

// Check validates the attempt. It may be repeated while the attempt is
// Created or Checked. A validation rejection finishes the attempt; a new
// amount or tag needs a new NewTopUp.
func (a *Attempt) Check(ctx context.Context) (models.Response[models.PendingTopUp], error) {
	a.mu.Lock()
	switch a.state {
	case StateCreated, StateChecked:
	default:
		err := a.stateErr()
		a.mu.Unlock()
		return models.Response[models.PendingTopUp]{}, err
	}
	a.state = StateChecking
	a.pending = nil
	a.mu.Unlock()

	resp := a.client.CheckTopUp(ctx, a.topUp)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.abortRequested {
		a.state = StateAborted
		return models.Response[models.PendingTopUp]{}, ErrAttemptAborted
	}
	switch resp.Kind() {
	case models.KindOK:
		pending, _ := resp.Value()
		a.pending = &pending
		a.state = StateChecked
	case models.KindValidationError:
		a.state = StateRejected
	default:
		a.state = StateCreated
	}
	return resp, nil
}

// Book commits a checked attempt, or replays an attempt whose outcome is
// unknown with the same idempotency key.
func (a *Attempt) Book(ctx context.Context) (models.Response[models.CompletedTopUp], error) {
	a.mu.Lock()
	from := a.state
	switch from {
	case StateChecked:
		if a.pending != nil && a.pending.Expired(a.client.now()) {
			a.state = StateCreated
			a.pending = nil
			a.mu.Unlock()
			return models.Response[models.CompletedTopUp]{}, ErrCheckExpired
		}
	case StateUnknown:
	default:
		err := a.stateErr()
		a.mu.Unlock()
		return models.Response[models.CompletedTopUp]{}, err
	}
	if err := a.client.journal.Track(a.topUp, string(StateBooking)); err != nil {
		a.mu.Unlock()
		return models.Response[models.CompletedTopUp]{}, err
	}
	a.state = StateBooking
	a.mu.Unlock()

	resp := a.client.BookTopUp(ctx, a.topUp)

	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case resp.Kind() == models.KindOK:
		completed, _ := resp.Value()
		a.completed = &completed
		a.state = StateCompleted
		a.forget()
	case resp.Kind() == models.KindValidationError:
		a.pending = nil
		a.state = StateRejected
		a.forget()
	case resp.CommitUnknown() || from == StateUnknown:
		a.state = StateUnknown
		if err := a.client.journal.Track(a.topUp, string(StateUnknown)); err != nil {
			a.client.log.WithField("idempotency_key", a.topUp.IdempotencyKey()).Errorf("failed to journal unknown outcome: %v", err)
		}
	default:
		// pre-commit failure or unauthorized: nothing was booked
		a.state = StateChecked
		a.forget()
	}
	return resp, nil
}

// Abort abandons the attempt before booking. An in-flight check is left to
// finish and its result discarded.
func (a *Attempt) Abort() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.state {
	case StateCreated, StateChecked:
		a.state = StateAborted
		a.pending = nil
		return nil
	case StateChecking:
		a.abortRequested = true
		return nil
	case StateAborted:
		return nil
	case StateBooking, StateUnknown:
		return ErrAbortForbidden
	default:
		return ErrAttemptFinished
	}
}

// stateErr must be called with mu held.
func (a *Attempt) stateErr() error {
	switch a.state {
	case StateCreated:
		return ErrNotChecked
	case StateChecking, StateBooking:
		return ErrAttemptBusy
	case StateUnknown:
		return ErrOutcomeUnknown
	case StateAborted:
		return ErrAttemptAborted
	default:
		return ErrAttemptFinished
	}
}

func (a *Attempt) forget() {
	if err := a.client.journal.Forget(a.topUp.IdempotencyKey()); err != nil {
		a.client.log.WithFields(logrus.Fields{"idempotency_key": a.topUp.IdempotencyKey()}).Warnf("failed to clear journal entry: %v", err)
	}
}
