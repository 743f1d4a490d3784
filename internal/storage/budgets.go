package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"cekcuan/internal/common"
)

// GetMonthlyBudget returns the allocation for the given period, or zero if
// no row exists yet.
func (s *SQLiteStore) GetMonthlyBudget(ctx context.Context, month, year int) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validatePeriod(month, year); err != nil {
		return decimal.Zero, err
	}
	return getMonthlyBudget(ctx, s.db, month, year)
}

func getMonthlyBudget(ctx context.Context, q dbtx, month, year int) (decimal.Decimal, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		`SELECT amount FROM monthly_budgets WHERE month = ? AND year = ?`,
		month, year).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, storageErr("query monthly budget", err)
	}

	amount, parseErr := decimal.NewFromString(raw)
	if parseErr != nil {
		return decimal.Zero, fmt.Errorf("corrupt budget amount %q for %d-%d: %w", raw, year, month, parseErr)
	}
	return amount, nil
}

// UpsertMonthlyBudget replaces the single allocation row for the period.
// Additive semantics (read, add, write back) belong to the caller.
func (s *SQLiteStore) UpsertMonthlyBudget(ctx context.Context, month, year int, amount decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePeriod(month, year); err != nil {
		return err
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: budget amount must not be negative, got %s", common.ErrValidation, amount)
	}
	return upsertMonthlyBudget(ctx, s.db, month, year, amount)
}

func upsertMonthlyBudget(ctx context.Context, q dbtx, month, year int, amount decimal.Decimal) error {
	query := `
		INSERT INTO monthly_budgets (month, year, amount) VALUES (?, ?, ?)
		ON CONFLICT(month, year) DO UPDATE SET amount = excluded.amount`

	if _, err := q.ExecContext(ctx, query, month, year, amount.String()); err != nil {
		return storageErr("upsert monthly budget", err)
	}
	return nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be 1..12, got %d", common.ErrValidation, month)
	}
	if year < 1 {
		return fmt.Errorf("%w: year must be positive, got %d", common.ErrValidation, year)
	}
	return nil
}
