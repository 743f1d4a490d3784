// Package storage provides the SQLite persistence layer for the ledger.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"cekcuan/internal/model"
	"cekcuan/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// timeLayout is the fixed-width UTC format for every persisted timestamp.
// Lexicographic comparison of these strings matches chronological order, so
// BETWEEN filters over the date column are correct.
const timeLayout = "2006-01-02T15:04:05Z"

// formatTimestamp normalizes t to UTC at second precision.
func formatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timeLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so row
// logic can serve both the plain accessors and transaction-scoped writes.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements service.Storage using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite storage instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers at the store boundary and
	// gives readers a consistent snapshot.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStore) BeginTx(ctx context.Context) (service.Tx, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}

	return &sqliteTx{tx: tx}, nil
}

// ResetAllData wipes transactions, savings, budgets and categories in one
// transaction, then re-seeds the default categories.
func (s *SQLiteStore) ResetAllData(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin reset", err)
	}

	for _, table := range []string{"transactions", "savings", "monthly_budgets", "categories"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			_ = tx.Rollback()
			return storageErr("wipe "+table, err)
		}
	}

	if err := seedDefaultCategories(ctx, tx, time.Now()); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit reset", err)
	}
	return nil
}

// sqliteTx wraps sql.Tx to implement service.Tx. It exposes only the
// operations compound ledger writes need.
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return insertTransaction(ctx, t.tx, txn)
}

func (t *sqliteTx) IncrementSavingsCurrent(ctx context.Context, id int64, delta decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return incrementSavingsCurrent(ctx, t.tx, id, delta)
}

func (t *sqliteTx) GetSavingsGoalByID(ctx context.Context, id int64) (*model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getSavingsGoalByID(ctx, t.tx, id)
}

func (t *sqliteTx) GetMonthlyBudget(ctx context.Context, month, year int) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	return getMonthlyBudget(ctx, t.tx, month, year)
}

func (t *sqliteTx) UpsertMonthlyBudget(ctx context.Context, month, year int, amount decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return upsertMonthlyBudget(ctx, t.tx, month, year, amount)
}

func (t *sqliteTx) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCategoryByName(ctx, t.tx, name)
}
