// Package terminal drives top-ups on a till: scan, amount, check, confirm,
// book, result. One attempt runs at a time.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeffleon2/draftea-topup/internal/client"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/tagreader"
	"github.com/jeffleon2/draftea-topup/internal/topup"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// ErrCancelled is returned by an Operator that backs out of a prompt.
	ErrCancelled = errors.New("cancelled by operator")
	// ErrUnresolved blocks new top-ups while an earlier book has an unknown
	// outcome.
	ErrUnresolved = errors.New("an earlier top-up has an unknown outcome")
)

type Outcome string

const (
	OutcomeCompleted    Outcome = "COMPLETED"
	OutcomeRejected     Outcome = "REJECTED"
	OutcomeUnknown      Outcome = "UNKNOWN"
	OutcomeFailed       Outcome = "FAILED"
	OutcomeUnauthorized Outcome = "UNAUTHORIZED"
	OutcomeAborted      Outcome = "ABORTED"
	OutcomeReadFailed   Outcome = "READ_FAILED"
	OutcomeBlocked      Outcome = "BLOCKED"
)

type Order struct {
	Amount decimal.Decimal
	Method models.PaymentMethod
}

type Result struct {
	Outcome   Outcome
	Tag       models.TagIdentity
	TopUp     models.NewTopUp
	Completed *models.CompletedTopUp
	Err       error
}

// Operator is the person at the till.
type Operator interface {
	EnterAmount(ctx context.Context, tag models.TagIdentity) (Order, error)
	Confirm(ctx context.Context, pending models.PendingTopUp) (bool, error)
	// ConfirmReplay asks whether a book with an unknown outcome should be
	// sent again with the same idempotency key.
	ConfirmReplay(ctx context.Context, topUp models.NewTopUp, cause *models.NetworkError) (bool, error)
	Show(result Result)
}

type Session struct {
	client   *client.Client
	builder  *topup.Builder
	operator Operator
	window   time.Duration
	now      func() time.Time
	log      *logrus.Entry

	lastTag models.TagIdentity
	lastAt  time.Time

	// attempts left in Unknown, oldest first
	unresolved []unresolved
}

type unresolved struct {
	attempt *client.Attempt
	cause   *models.NetworkError
}

type Option func(*Session)

// WithDuplicateWindow ignores a scan of the tag just handled if it arrives
// within d.
func WithDuplicateWindow(d time.Duration) Option {
	return func(s *Session) { s.window = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithUnresolved restores top-ups whose book outcome was not known when the
// terminal last stopped.
func WithUnresolved(topUps ...models.NewTopUp) Option {
	return func(s *Session) {
		for _, topUp := range topUps {
			s.unresolved = append(s.unresolved, unresolved{
				attempt: s.client.ResumeAttempt(topUp),
				cause: &models.NetworkError{
					Kind:      models.NetworkTimeout,
					Ambiguous: true,
					Err:       errors.New("outcome not known when the terminal stopped"),
				},
			})
		}
	}
}

func NewSession(c *client.Client, b *topup.Builder, op Operator, opts ...Option) *Session {
	s := &Session{
		client:   c,
		builder:  b,
		operator: op,
		now:      time.Now,
		log:      logrus.WithField("component", "terminal"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run handles scans one after the other until the stream ends or ctx is
// done.
func (s *Session) Run(ctx context.Context, scans <-chan tagreader.Scan) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case scan, ok := <-scans:
			if !ok {
				return nil
			}
			if scan.Err != nil {
				s.operator.Show(Result{Outcome: OutcomeReadFailed, Err: scan.Err})
				continue
			}
			if s.duplicate(scan) {
				s.log.WithField("tag", scan.Tag).Debug("ignoring repeated scan")
				continue
			}
			s.Process(ctx, scan.Tag)
			s.lastTag, s.lastAt = scan.Tag, s.now()
		}
	}
}

func (s *Session) duplicate(scan tagreader.Scan) bool {
	return s.window > 0 && scan.Tag == s.lastTag && scan.ReadAt.Sub(s.lastAt) < s.window
}

// Unresolved lists the top-ups whose book outcome is still unknown.
func (s *Session) Unresolved() []models.NewTopUp {
	out := make([]models.NewTopUp, 0, len(s.unresolved))
	for _, u := range s.unresolved {
		out = append(out, u.attempt.TopUp())
	}
	return out
}

// Process runs one top-up for tag through to a result, which is also shown
// to the operator. While an earlier top-up is unresolved the operator is
// offered its replay instead, and no new attempt starts until it settles.
func (s *Session) Process(ctx context.Context, tag models.TagIdentity) Result {
	if res, ok := s.settle(ctx); !ok {
		res.Tag = tag
		s.operator.Show(res)
		return res
	}
	res := s.process(ctx, tag)
	s.operator.Show(res)
	return res
}

// settle replays unresolved attempts with the operator's consent. ok is
// false while any of them stays Unknown.
func (s *Session) settle(ctx context.Context) (Result, bool) {
	for len(s.unresolved) > 0 {
		u := s.unresolved[0]
		topUp := u.attempt.TopUp()
		res, err := s.resolveUnknown(ctx, u.attempt, u.cause)
		if u.attempt.State() == client.StateUnknown {
			if err == nil {
				err = ErrUnresolved
			} else {
				err = fmt.Errorf("%w: %v", ErrUnresolved, err)
			}
			s.log.WithField("idempotency_key", topUp.IdempotencyKey()).Warn("new top-up refused, earlier outcome unknown")
			return Result{Outcome: OutcomeBlocked, TopUp: topUp, Err: err}, false
		}
		s.operator.Show(res)
	}
	return Result{}, true
}

func (s *Session) process(ctx context.Context, tag models.TagIdentity) Result {
	for {
		order, err := s.operator.EnterAmount(ctx, tag)
		if err != nil {
			return Result{Outcome: OutcomeAborted, Tag: tag, Err: err}
		}

		topUp, err := s.builder.NewTopUp(tag, order.Amount, order.Method)
		if err != nil {
			s.operator.Show(Result{Outcome: OutcomeRejected, Tag: tag, Err: err})
			continue
		}

		res, retry := s.attempt(ctx, s.client.NewAttempt(topUp))
		if retry {
			s.operator.Show(res)
			continue
		}
		return res
	}
}

// attempt checks and books a. retry is set when the operator should be
// asked for a corrected amount.
func (s *Session) attempt(ctx context.Context, a *client.Attempt) (Result, bool) {
	topUp := a.TopUp()
	base := Result{Tag: topUp.Tag(), TopUp: topUp}
	log := s.log.WithField("idempotency_key", topUp.IdempotencyKey())

	for {
		resp, err := a.Check(ctx)
		if err != nil {
			return base.with(OutcomeAborted, err), false
		}

		type step struct {
			res     Result
			proceed bool
			retry   bool
		}
		st := models.Match(resp,
			func(models.PendingTopUp) step { return step{proceed: true} },
			func(e *models.ValidationError) step { return step{res: base.with(OutcomeRejected, e), retry: true} },
			func(e *models.NetworkError) step { return step{res: base.with(OutcomeFailed, e)} },
			func() step { return step{res: base.with(OutcomeUnauthorized, models.ErrUnauthorized)} },
		)
		if !st.proceed {
			return st.res, st.retry
		}

		pending, _ := resp.Value()
		ok, err := s.operator.Confirm(ctx, pending)
		if err != nil || !ok {
			if abortErr := a.Abort(); abortErr != nil {
				log.Errorf("abort after declined confirmation: %v", abortErr)
			}
			if err == nil {
				err = ErrCancelled
			}
			return base.with(OutcomeAborted, err), false
		}

		res, err := s.book(ctx, a)
		if errors.Is(err, client.ErrCheckExpired) {
			log.Info("check expired before booking, checking again")
			continue
		}
		return res, false
	}
}

// Replay re-sends an attempt whose book outcome is unknown, with the same
// idempotency key. If the outcome stays unknown the operator is asked
// before every further re-send.
func (s *Session) Replay(ctx context.Context, topUp models.NewTopUp) Result {
	a := s.client.ResumeAttempt(topUp)
	for _, u := range s.unresolved {
		if u.attempt.TopUp().IdempotencyKey() == topUp.IdempotencyKey() {
			a = u.attempt
		}
	}
	res, _ := s.book(ctx, a)
	s.operator.Show(res)
	return res
}

// book sends a and keeps it in the unresolved list for as long as it is
// Unknown.
func (s *Session) book(ctx context.Context, a *client.Attempt) (Result, error) {
	res, err := s.send(ctx, a)
	s.track(a, res)
	return res, err
}

func (s *Session) track(a *client.Attempt, res Result) {
	key := a.TopUp().IdempotencyKey()
	kept := s.unresolved[:0]
	var prev *models.NetworkError
	for _, u := range s.unresolved {
		if u.attempt.TopUp().IdempotencyKey() == key {
			prev = u.cause
			continue
		}
		kept = append(kept, u)
	}
	s.unresolved = kept
	if a.State() != client.StateUnknown {
		return
	}

	var cause *models.NetworkError
	if !errors.As(res.Err, &cause) {
		cause = prev
	}
	if cause == nil {
		cause = &models.NetworkError{Kind: models.NetworkTimeout, Ambiguous: true, Err: res.Err}
	}
	s.unresolved = append(s.unresolved, unresolved{attempt: a, cause: cause})
}

func (s *Session) send(ctx context.Context, a *client.Attempt) (Result, error) {
	topUp := a.TopUp()
	base := Result{Tag: topUp.Tag(), TopUp: topUp}

	resp, err := a.Book(ctx)
	if err != nil {
		return base.with(OutcomeFailed, err), err
	}

	return models.Match(resp,
		func(c models.CompletedTopUp) Result {
			base.Outcome = OutcomeCompleted
			base.Completed = &c
			return base
		},
		func(e *models.ValidationError) Result { return base.with(OutcomeRejected, e) },
		func(e *models.NetworkError) Result {
			if a.State() != client.StateUnknown {
				return base.with(OutcomeFailed, e)
			}
			res, err := s.resolveUnknown(ctx, a, e)
			if err != nil {
				return base.with(OutcomeUnknown, err)
			}
			return res
		},
		func() Result {
			if a.State() == client.StateUnknown {
				return base.with(OutcomeUnknown, models.ErrUnauthorized)
			}
			return base.with(OutcomeUnauthorized, models.ErrUnauthorized)
		},
	), nil
}

// resolveUnknown keeps asking the operator to replay until the outcome is
// known or they decline, in which case the attempt stays Unknown.
func (s *Session) resolveUnknown(ctx context.Context, a *client.Attempt, cause *models.NetworkError) (Result, error) {
	topUp := a.TopUp()
	ok, err := s.operator.ConfirmReplay(ctx, topUp, cause)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		s.log.WithField("idempotency_key", topUp.IdempotencyKey()).Warn("book outcome left unknown by operator")
		return Result{Outcome: OutcomeUnknown, Tag: topUp.Tag(), TopUp: topUp, Err: cause}, nil
	}
	return s.book(ctx, a)
}

func (r Result) with(o Outcome, err error) Result {
	r.Outcome = o
	r.Err = err
	return r
}
