package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jeffleon2/draftea-topup/internal/database"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/repository/memory"
	"github.com/jeffleon2/draftea-topup/internal/repository/posgrest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeedLedger_IsRepeatable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "seed.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := posgrest.NewTopUpStore(db)
	require.NoError(t, store.Migrate())

	require.NoError(t, database.SeedLedger(db))
	require.NoError(t, database.SeedLedger(db))

	accounts, err := posgrest.New[models.Account](db).GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, *accounts, len(database.DemoAccounts()))

	terminal, err := store.TerminalByToken(context.Background(), "local-till-1")
	require.NoError(t, err)
	assert.Equal(t, "till-1", terminal.ID)
}

func TestSeedMemory(t *testing.T) {
	store := memory.New()
	database.SeedMemory(store)

	acc, err := store.AccountByTag(context.Background(), "04DEADBEEF0001")
	require.NoError(t, err)
	assert.True(t, acc.Blocked)

	terminal, err := store.TerminalByToken(context.Background(), "local-bar-3")
	require.NoError(t, err)
	assert.False(t, terminal.AllowTopUp)
}
