package database

import (
	"context"

	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/repository/memory"
	"github.com/jeffleon2/draftea-topup/internal/repository/posgrest"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DemoTerminals and DemoAccounts are the fixtures of a local ledger.
func DemoTerminals() []models.Terminal {
	return []models.Terminal{
		{ID: "till-1", Name: "Main stage bar", Token: "local-till-1", AllowTopUp: true},
		{ID: "till-2", Name: "Food court", Token: "local-till-2", AllowTopUp: true},
		{ID: "bar-3", Name: "Backstage bar (sales only)", Token: "local-bar-3", AllowTopUp: false},
	}
}

func DemoAccounts() []models.Account {
	return []models.Account{
		{TagUID: "04A1B2C3D4E5F6", Name: "alice", Balance: decimal.RequireFromString("5.00")},
		{TagUID: "04112233445566", Name: "bob", Balance: decimal.RequireFromString("140.00")},
		{TagUID: "04DEADBEEF0001", Name: "carol", Balance: decimal.Zero, Blocked: true},
	}
}

type seedRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	GetAll(ctx context.Context) (*[]T, error)
	GetBy(ctx context.Context, key string, value interface{}) (*[]T, error)
}

// seed creates entity unless a row matching key already exists.
func seed[T any](ctx context.Context, repo seedRepository[T], key string, value interface{}, entity *T) error {
	existing, err := repo.GetBy(ctx, key, value)
	if err != nil {
		return err
	}
	if len(*existing) > 0 {
		return nil
	}
	return repo.Create(ctx, entity)
}

func SeedLedger(db *gorm.DB) error {
	ctx := context.Background()

	terminals := posgrest.New[models.Terminal](db)
	for _, terminal := range DemoTerminals() {
		if err := seed[models.Terminal](ctx, terminals, "id = ?", terminal.ID, &terminal); err != nil {
			return err
		}
	}

	accounts := posgrest.New[models.Account](db)
	for _, account := range DemoAccounts() {
		if err := seed[models.Account](ctx, accounts, "tag_uid = ?", account.TagUID, &account); err != nil {
			return err
		}
	}

	all, err := accounts.GetAll(ctx)
	if err != nil {
		return err
	}
	logrus.WithField("accounts", len(*all)).Info("ledger seeded successfully")
	return nil
}

func SeedMemory(store *memory.Store) {
	for _, terminal := range DemoTerminals() {
		store.AddTerminal(terminal)
	}
	for _, account := range DemoAccounts() {
		store.AddAccount(account)
	}
}
