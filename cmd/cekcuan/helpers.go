package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"cekcuan/internal/common"
	"cekcuan/internal/config"
	"cekcuan/internal/ledger"
	"cekcuan/internal/service"
	"cekcuan/internal/storage"
)

// initStorage opens the configured database and brings the schema up to
// date, seeding default categories on first run.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/cekcuan/cekcuan.db"
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initLedger opens storage and wraps it in the ledger engine.
func initLedger(ctx context.Context) (*ledger.Ledger, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ledger.New(store), store, nil
}

// parseAmount converts a CLI argument into a positive decimal amount.
func parseAmount(arg string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(arg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal amount", common.ErrValidation, arg)
	}
	return amount, nil
}

// displayCurrency returns the configured display currency code, if any.
func displayCurrency(ctx context.Context, store service.Storage) string {
	currency, err := store.GetSetting(ctx, ledger.SettingCurrency)
	if err != nil {
		return ""
	}
	return currency
}
