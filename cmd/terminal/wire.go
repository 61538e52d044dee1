package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/client"
	"github.com/jeffleon2/draftea-topup/internal/journal"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/terminal"
	"github.com/jeffleon2/draftea-topup/internal/topup"
	"github.com/sirupsen/logrus"
)

// till is everything one terminal process needs.
type till struct {
	cfg     config.Terminal
	journal *journal.Store
	session *terminal.Session
}

func openTill(op terminal.Operator) (*till, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	t := cfg.Terminal
	if t.Token == "" || t.TerminalID == "" || t.OperatorID == "" {
		return nil, errors.New("TERMINAL_TOKEN, TERMINAL_ID and TERMINAL_OPERATOR_ID must be set")
	}

	level, err := logrus.ParseLevel(cfg.APP.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	j, err := journal.Open(t.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", t.JournalPath, err)
	}

	transport := client.NewHTTPTransport(t.LedgerURL, t.RequestTimeout)
	c := client.New(transport, client.Identity{Token: t.Token},
		client.WithCheckRetry(t.CheckRetryConfig()),
		client.WithBookRetry(t.BookRetryConfig()),
		client.WithReplayAttempts(t.BookReplayAttempts),
		client.WithJournal(j),
		client.WithLogger(logrus.WithField("terminal_id", t.TerminalID)),
	)
	builder := topup.NewBuilder(topup.Context{
		TerminalID: t.TerminalID,
		OperatorID: t.OperatorID,
		Currency:   models.Currency(t.Currency),
	})

	entries, err := j.List()
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("reading journal %s: %w", t.JournalPath, err)
	}
	unresolved := make([]models.NewTopUp, 0, len(entries))
	for _, e := range entries {
		topUp, err := e.NewTopUp()
		if err != nil {
			j.Close()
			return nil, fmt.Errorf("journal entry %s is unreadable: %w", e.Key, err)
		}
		unresolved = append(unresolved, topUp)
	}

	return &till{
		cfg:     t,
		journal: j,
		session: terminal.NewSession(c, builder, op,
			terminal.WithDuplicateWindow(t.DuplicateWindow),
			terminal.WithUnresolved(unresolved...),
		),
	}, nil
}

func (t *till) Close() error {
	return t.journal.Close()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
