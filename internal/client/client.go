// Package client implements the terminal side of the two-phase top-up
// protocol: check, then book, each idempotent per NewTopUp.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/retry"
	"github.com/sirupsen/logrus"
)

// Transport carries a single check or book call to the ledger. It reports
// transport failures as NetworkError and marks them Ambiguous when the
// request may have been processed.
type Transport interface {
	CheckTopUp(ctx context.Context, token string, topUp models.NewTopUp) models.Response[models.PendingTopUp]
	BookTopUp(ctx context.Context, token string, topUp models.NewTopUp) models.Response[models.CompletedTopUp]
}

// Identity is the terminal credential sent with every call.
type Identity struct {
	Token string
}

type Client struct {
	transport      Transport
	identity       Identity
	checkRetry     config.RetryConfig
	bookRetry      config.RetryConfig
	replayAttempts int
	journal        Journal
	log            *logrus.Entry
	now            func() time.Time
}

type Option func(*Client)

func WithCheckRetry(cfg config.RetryConfig) Option {
	return func(c *Client) { c.checkRetry = cfg }
}

// WithBookRetry sets the budget for book failures known to be pre-commit.
func WithBookRetry(cfg config.RetryConfig) Option {
	return func(c *Client) { c.bookRetry = cfg }
}

// WithReplayAttempts sets how many times a book with an ambiguous outcome
// is re-sent with the same key before the outcome is reported unknown.
func WithReplayAttempts(n int) Option {
	return func(c *Client) { c.replayAttempts = n }
}

func WithJournal(j Journal) Option {
	return func(c *Client) { c.journal = j }
}

func WithLogger(log *logrus.Entry) Option {
	return func(c *Client) { c.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(transport Transport, identity Identity, opts ...Option) *Client {
	c := &Client{
		transport:      transport,
		identity:       identity,
		checkRetry:     config.RetryConfig{MaxAttempts: 3},
		bookRetry:      config.RetryConfig{MaxAttempts: 3},
		replayAttempts: 1,
		journal:        noopJournal{},
		log:            logrus.WithField("component", "topup-client"),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.checkRetry = retry.WithDefaults(c.checkRetry)
	c.bookRetry = retry.WithDefaults(c.bookRetry)
	if c.replayAttempts < 0 {
		c.replayAttempts = 0
	}
	return c
}

// CheckTopUp validates topUp against the ledger without mutating anything.
// Network failures are retried with backoff; every other outcome is
// returned as is.
func (c *Client) CheckTopUp(ctx context.Context, topUp models.NewTopUp) models.Response[models.PendingTopUp] {
	log := c.log.WithField("idempotency_key", topUp.IdempotencyKey())

	var last models.NetworkError
	for attempt := 1; attempt <= c.checkRetry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := retry.Wait(ctx, retry.Backoff(c.checkRetry, attempt-2)); err != nil {
				return models.NetworkFailure[models.PendingTopUp](&models.NetworkError{
					Kind:     models.NetworkTimeout,
					Attempts: attempt - 1,
					Err:      err,
				})
			}
		}

		resp := c.transport.CheckTopUp(ctx, c.identity.Token, topUp)
		netErr, ok := networkError(resp)
		if !ok {
			return resp
		}
		last = *netErr
		log.WithFields(logrus.Fields{"attempt": attempt, "kind": netErr.Kind}).Warnf("check failed: %v", netErr.Err)
	}

	// nothing was mutated, so a failed check is never ambiguous
	last.Ambiguous = false
	last.Attempts = c.checkRetry.MaxAttempts
	return models.NetworkFailure[models.PendingTopUp](&last)
}

// BookTopUp commits topUp. Failures known to be pre-commit are retried.
// After an ambiguous failure the same request is only re-sent up to the
// replay budget, relying on the ledger returning the stored result for a
// key it already booked; when that is exhausted the result is a
// NetworkError for which CommitUnknown reports true.
func (c *Client) BookTopUp(ctx context.Context, topUp models.NewTopUp) models.Response[models.CompletedTopUp] {
	log := c.log.WithField("idempotency_key", topUp.IdempotencyKey())

	var (
		sent      int
		preCommit int
		replays   int
		ambiguous bool
		last      models.NetworkErrorKind
	)
	for {
		sent++
		resp := c.transport.BookTopUp(ctx, c.identity.Token, topUp)
		netErr, ok := networkError(resp)
		if !ok {
			// an earlier send may have committed, so only a definitive answer ends the call
			if ambiguous && resp.Kind() == models.KindUnauthorized {
				log.WithField("attempts", sent).Error("replay refused as unauthorized, book outcome unknown")
				return bookFailure(&models.NetworkError{Kind: last, Err: models.ErrUnauthorized}, true, sent)
			}
			if sent > 1 {
				log.WithField("attempts", sent).Infof("book resolved as %s", resp.Kind())
			}
			return resp
		}
		ambiguous = ambiguous || netErr.Ambiguous
		last = netErr.Kind

		var wait int
		if !ambiguous {
			preCommit++
			if preCommit >= c.bookRetry.MaxAttempts {
				return bookFailure(netErr, false, sent)
			}
			wait = preCommit - 1
		} else {
			if replays >= c.replayAttempts {
				log.WithField("attempts", sent).Errorf("book outcome unknown: %v", netErr)
				return bookFailure(netErr, true, sent)
			}
			replays++
			wait = replays - 1
		}

		log.WithFields(logrus.Fields{"attempt": sent, "kind": netErr.Kind, "ambiguous": ambiguous}).
			Warn("book failed, re-sending with the same idempotency key")
		if err := retry.Wait(ctx, retry.Backoff(c.bookRetry, wait)); err != nil {
			return bookFailure(&models.NetworkError{Kind: models.NetworkTimeout, Err: err}, ambiguous, sent)
		}
	}
}

func bookFailure(src *models.NetworkError, ambiguous bool, attempts int) models.Response[models.CompletedTopUp] {
	out := *src
	out.Ambiguous = ambiguous
	out.Attempts = attempts
	return models.NetworkFailure[models.CompletedTopUp](&out)
}

func networkError[T any](r models.Response[T]) (*models.NetworkError, bool) {
	if r.Kind() != models.KindNetworkError {
		return nil, false
	}
	var netErr *models.NetworkError
	if !errors.As(r.Err(), &netErr) {
		return nil, false
	}
	return netErr, true
}
