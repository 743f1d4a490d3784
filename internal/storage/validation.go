package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cekcuan/internal/common"
	"cekcuan/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrNilParameter = errors.New("parameter cannot be nil")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", common.ErrValidation, paramName)
	}
	return nil
}

// validateAmount ensures a monetary amount is strictly positive.
func validateAmount(d decimal.Decimal, paramName string) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: %s must be positive, got %s", common.ErrValidation, paramName, d)
	}
	return nil
}

// validateTransaction validates a ledger entry before it is persisted.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: transaction id missing", common.ErrValidation)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", common.ErrValidation, txn.Type)
	}
	if err := validateAmount(txn.Amount, "amount"); err != nil {
		return err
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: transaction date missing", common.ErrValidation)
	}
	if txn.Source != "" && !txn.Source.Valid() {
		return fmt.Errorf("%w: unknown fund source %q", common.ErrValidation, txn.Source)
	}
	return nil
}

// storageErr wraps an underlying persistence failure so callers can treat it
// as fatal to the operation.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrStorage, op, err)
}
