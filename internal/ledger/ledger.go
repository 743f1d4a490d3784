// Package ledger implements the fund-movement rules of the tracker: how
// money enters the income pool, moves into the monthly budget and savings
// goals, and is realized as spending. Every compound write is atomic at the
// storage boundary and serialized behind a single-writer lock.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cekcuan/internal/common"
	"cekcuan/internal/model"
	"cekcuan/internal/service"
)

// Settings keys consumed by the allocation rules.
const (
	// SettingOverflowPolicy controls what happens when a savings
	// contribution would push a goal past its target.
	SettingOverflowPolicy = "savings.overflow_policy"
	// SettingCurrency is the display currency code; the ledger itself
	// stores bare decimal amounts.
	SettingCurrency = "display.currency"
)

// Overflow policy values.
const (
	OverflowReject = "reject"
	OverflowClamp  = "clamp"
)

// Ledger coordinates validation, aggregation and atomic persistence for all
// money-moving operations.
type Ledger struct {
	store service.Storage
	now   func() time.Time

	// mu serializes compound read-validate-write operations so two rapid
	// user actions cannot both pass the same funds check.
	mu sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source. Used by tests to pin period
// boundaries.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New creates a ledger over the given store.
func New(store service.Storage, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Initialize migrates the schema and seeds default categories. Idempotent;
// must be called before any other operation.
func (l *Ledger) Initialize(ctx context.Context) error {
	return l.store.Migrate(ctx)
}

// RecordIncome adds money to the tracked income pool and returns the new
// transaction id. There is no upper bound.
func (l *Ledger) RecordIncome(ctx context.Context, amount decimal.Decimal, source string) (string, error) {
	if err := validatePositive(amount); err != nil {
		return "", err
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("%w: income source cannot be empty", common.ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	txn := &model.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: source,
		Type:        model.TypeIncome,
		Date:        l.now(),
	}
	if err := l.attachCategory(ctx, txn, model.CategoryIncome); err != nil {
		return "", err
	}

	if err := l.store.InsertTransaction(ctx, txn); err != nil {
		return "", err
	}

	slog.Info("recorded income", "id", txn.ID, "amount", amount, "source", source)
	return txn.ID, nil
}

// RecordExpense records realized spending. Expenses are allowed to exceed
// the budget; overspend is a displayed state, not an error.
func (l *Ledger) RecordExpense(ctx context.Context, amount decimal.Decimal, description string, categoryID int64, details string) (string, error) {
	if err := validatePositive(amount); err != nil {
		return "", err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("%w: expense description cannot be empty", common.ErrValidation)
	}

	cat, err := l.store.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return "", err
	}
	if cat == nil {
		return "", fmt.Errorf("%w: category %d", common.ErrNotFound, categoryID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	txn := &model.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: description,
		Details:     details,
		Type:        model.TypeExpense,
		CategoryID:  &cat.ID,
		Date:        l.now(),
	}

	if err := l.store.InsertTransaction(ctx, txn); err != nil {
		return "", err
	}

	slog.Info("recorded expense", "id", txn.ID, "amount", amount, "category", cat.Name)
	return txn.ID, nil
}

// AllocateToBudget moves amount from available funds into the current
// month's budget. The budget row and its audit entry land atomically.
func (l *Ledger) AllocateToBudget(ctx context.Context, amount decimal.Decimal) error {
	if err := validatePositive(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	available, err := l.availableFunds(ctx)
	if err != nil {
		return err
	}
	if amount.GreaterThan(available) {
		return fmt.Errorf("%w: requested %s, available %s", common.ErrInsufficientFunds, amount, available)
	}

	now := l.now()
	month, year := int(now.Month()), now.Year()

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer rollbackOnError(tx, &err)

	current, err := tx.GetMonthlyBudget(ctx, month, year)
	if err != nil {
		return err
	}
	if err = tx.UpsertMonthlyBudget(ctx, month, year, current.Add(amount)); err != nil {
		return err
	}

	txn := &model.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: fmt.Sprintf("Budget allocation %d-%02d", year, month),
		Type:        model.TypeAllocation,
		Source:      model.SourceIncome,
		Date:        now,
	}
	if cat, catErr := tx.GetCategoryByName(ctx, model.CategoryAllocation); catErr == nil && cat != nil {
		txn.CategoryID = &cat.ID
	} else if catErr != nil {
		err = catErr
		return err
	}
	if err = tx.InsertTransaction(ctx, txn); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return storageCommitErr(err)
	}

	slog.Info("allocated to budget", "amount", amount, "month", month, "year", year)
	return nil
}

// AllocateToSavings moves amount into a savings goal. Income-sourced
// contributions must fit in available funds; external ones bypass the funds
// check. A contribution that would push the goal past its target is rejected
// unless the overflow policy setting says to clamp.
func (l *Ledger) AllocateToSavings(ctx context.Context, goalID int64, amount decimal.Decimal, source model.FundSource) error {
	if err := validatePositive(amount); err != nil {
		return err
	}
	if !source.Valid() {
		return fmt.Errorf("%w: unknown fund source %q", common.ErrValidation, source)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	goal, err := l.store.GetSavingsGoalByID(ctx, goalID)
	if err != nil {
		return err
	}
	if goal == nil {
		return fmt.Errorf("%w: savings goal %d", common.ErrNotFound, goalID)
	}

	if source == model.SourceIncome {
		available, fundsErr := l.availableFunds(ctx)
		if fundsErr != nil {
			return fundsErr
		}
		if amount.GreaterThan(available) {
			return fmt.Errorf("%w: requested %s, available %s", common.ErrInsufficientFunds, amount, available)
		}
	}

	if goal.Current.Add(amount).GreaterThan(goal.Target) {
		policy, policyErr := l.store.GetSetting(ctx, SettingOverflowPolicy)
		if policyErr != nil {
			return policyErr
		}
		if policy != OverflowClamp {
			return fmt.Errorf("%w: %s on top of %s exceeds target %s for %q",
				common.ErrExceedsTarget, amount, goal.Current, goal.Target, goal.Name)
		}
		amount = goal.Target.Sub(goal.Current)
		if !amount.IsPositive() {
			return fmt.Errorf("%w: goal %q is already funded", common.ErrExceedsTarget, goal.Name)
		}
	}

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer rollbackOnError(tx, &err)

	txn := &model.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: fmt.Sprintf("Contribution to %s", goal.Name),
		Type:        model.TypeAllocation,
		Source:      source,
		SavingID:    &goal.ID,
		Date:        l.now(),
	}
	if cat, catErr := tx.GetCategoryByName(ctx, model.CategorySavings); catErr == nil && cat != nil {
		txn.CategoryID = &cat.ID
	} else if catErr != nil {
		err = catErr
		return err
	}
	if err = tx.InsertTransaction(ctx, txn); err != nil {
		return err
	}
	if err = tx.IncrementSavingsCurrent(ctx, goal.ID, amount); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return storageCommitErr(err)
	}

	slog.Info("allocated to savings", "goal", goal.Name, "amount", amount, "source", source)
	return nil
}

// CreateSavingsGoal registers a new named target.
func (l *Ledger) CreateSavingsGoal(ctx context.Context, name string, target decimal.Decimal, color string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: goal name cannot be empty", common.ErrValidation)
	}
	if err := validatePositive(target); err != nil {
		return 0, err
	}

	goal, err := l.store.CreateSavingsGoal(ctx, name, target, color)
	if err != nil {
		return 0, err
	}
	return goal.ID, nil
}

// DeleteSavingsGoal removes a goal. History referencing it is kept with a
// dangling, display-only reference.
func (l *Ledger) DeleteSavingsGoal(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.DeleteSavingsGoal(ctx, id)
}

// SavingsGoals returns all goals.
func (l *Ledger) SavingsGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	return l.store.GetSavingsGoals(ctx)
}

// Transactions returns the full history, newest first.
func (l *Ledger) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return l.store.ListTransactions(ctx, service.TransactionFilter{})
}

// ResetAllData destructively wipes every table and re-seeds the default
// categories.
func (l *Ledger) ResetAllData(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.ResetAllData(ctx)
}

// VerifySavingsDrift audits the cached savings counters against transaction
// history.
func (l *Ledger) VerifySavingsDrift(ctx context.Context) ([]service.SavingsDrift, error) {
	return l.store.VerifySavingsDrift(ctx)
}

func (l *Ledger) attachCategory(ctx context.Context, txn *model.Transaction, name string) error {
	cat, err := l.store.GetCategoryByName(ctx, name)
	if err != nil {
		return err
	}
	if cat != nil {
		txn.CategoryID = &cat.ID
	}
	return nil
}

func validatePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", common.ErrValidation, amount)
	}
	return nil
}

// rollbackOnError rolls the transaction back when the surrounding operation
// failed before commit.
func rollbackOnError(tx service.Tx, err *error) {
	if *err != nil {
		_ = tx.Rollback()
	}
}

func storageCommitErr(err error) error {
	return fmt.Errorf("%w: commit: %v", common.ErrStorage, err)
}
