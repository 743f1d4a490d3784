package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cekcuan/internal/common"
	"cekcuan/internal/model"
	"cekcuan/internal/storage"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// newTestLedger returns a ledger over a fresh migrated store with a pinned
// clock.
func newTestLedger(t *testing.T) (*Ledger, *storage.SQLiteStore) {
	t.Helper()

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	led := New(store, WithClock(func() time.Time { return testNow }))
	require.NoError(t, led.Initialize(context.Background()))

	return led, store
}

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func TestRecordIncomeValidation(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := led.RecordIncome(ctx, decimal.Zero, "Gaji")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = led.RecordIncome(ctx, d(t, "-100"), "Gaji")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = led.RecordIncome(ctx, d(t, "100"), "   ")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestBalanceIsOrderIndependent(t *testing.T) {
	ctx := context.Background()

	// Income first, then expenses.
	first, _ := newTestLedger(t)
	_, err := first.RecordIncome(ctx, d(t, "1000000"), "Gaji")
	require.NoError(t, err)
	recordExpense(t, first, "150000", "Groceries")
	recordExpense(t, first, "50000", "Coffee")

	// Same entries interleaved the other way.
	second, _ := newTestLedger(t)
	recordExpense(t, second, "50000", "Coffee")
	_, err = second.RecordIncome(ctx, d(t, "1000000"), "Gaji")
	require.NoError(t, err)
	recordExpense(t, second, "150000", "Groceries")

	a, err := first.Balance(ctx)
	require.NoError(t, err)
	b, err := second.Balance(ctx)
	require.NoError(t, err)

	assert.True(t, a.Equal(b), "balances differ: %s vs %s", a, b)
	assert.True(t, a.Equal(d(t, "800000")), "expected 800000, got %s", a)
}

func TestAllocateToBudgetReducesAvailableFunds(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := led.RecordIncome(ctx, d(t, "1000000"), "Gaji")
	require.NoError(t, err)

	require.NoError(t, led.AllocateToBudget(ctx, d(t, "600000")))

	available, err := led.AvailableFunds(ctx)
	require.NoError(t, err)
	assert.True(t, available.Equal(d(t, "400000")), "expected 400000, got %s", available)

	budget, err := led.MonthlyBudget(ctx)
	require.NoError(t, err)
	assert.True(t, budget.Equal(d(t, "600000")), "expected 600000, got %s", budget)
}

func TestAllocateToBudgetAccumulates(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := led.RecordIncome(ctx, d(t, "1000000"), "Gaji")
	require.NoError(t, err)

	require.NoError(t, led.AllocateToBudget(ctx, d(t, "300000")))
	require.NoError(t, led.AllocateToBudget(ctx, d(t, "200000")))

	budget, err := led.MonthlyBudget(ctx)
	require.NoError(t, err)
	assert.True(t, budget.Equal(d(t, "500000")), "expected 500000, got %s", budget)

	available, err := led.AvailableFunds(ctx)
	require.NoError(t, err)
	assert.True(t, available.Equal(d(t, "500000")), "expected 500000, got %s", available)
}

func TestAllocateToBudgetInsufficientFundsLeavesNoTrace(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := led.RecordIncome(ctx, d(t, "100"), "Gaji")
	require.NoError(t, err)

	err = led.AllocateToBudget(ctx, d(t, "500"))
	assert.ErrorIs(t, err, common.ErrInsufficientFunds)

	// Nothing may have moved.
	budget, err := led.MonthlyBudget(ctx)
	require.NoError(t, err)
	assert.True(t, budget.IsZero(), "expected zero budget, got %s", budget)

	available, err := led.AvailableFunds(ctx)
	require.NoError(t, err)
	assert.True(t, available.Equal(d(t, "100")), "expected 100, got %s", available)

	txns, err := led.Transactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txns, 1, "only the income entry should exist")
}

func TestAllocateToSavingsFromIncome(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := led.RecordIncome(ctx, d(t, "1000000"), "Gaji")
	require.NoError(t, err)

	goalID, err := led.CreateSavingsGoal(ctx, "Motor", d(t, "5000000"), "#FF0000")
	require.NoError(t, err)

	require.NoError(t, led.AllocateToSavings(ctx, goalID, d(t, "50000"), model.SourceIncome))

	available, err := led.AvailableFunds(ctx)
	require.NoError(t, err)
	assert.True(t, available.Equal(d(t, "950000")), "expected 950000, got %s", available)

	goals, err := led.SavingsGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Current.Equal(d(t, "50000")), "expected current 50000, got %s", goals[0].Current)
}

func TestAllocateToSavingsExternalDoesNotTouchAvailableFunds(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := led.RecordIncome(ctx, d(t, "100"), "Gaji")
	require.NoError(t, err)

	goalID, err := led.CreateSavingsGoal(ctx, "Motor", d(t, "5000000"), "")
	require.NoError(t, err)

	// Far larger than the income pool, but sourced externally so the funds
	// check does not apply.
	require.NoError(t, led.AllocateToSavings(ctx, goalID, d(t, "2000000"), model.SourceExternal))

	available, err := led.AvailableFunds(ctx)
	require.NoError(t, err)
	assert.True(t, available.Equal(d(t, "100")), "expected 100, got %s", available)

	goals, err := led.SavingsGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Current.Equal(d(t, "2000000")))
}

func TestAllocateToSavingsInsufficientIncomeFunds(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := led.RecordIncome(ctx, d(t, "100"), "Gaji")
	require.NoError(t, err)

	goalID, err := led.CreateSavingsGoal(ctx, "Motor", d(t, "5000000"), "")
	require.NoError(t, err)

	err = led.AllocateToSavings(ctx, goalID, d(t, "500"), model.SourceIncome)
	assert.ErrorIs(t, err, common.ErrInsufficientFunds)

	goals, err := led.SavingsGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Current.IsZero(), "current must stay zero, got %s", goals[0].Current)
}

func TestAllocateToSavingsRejectsOverflowByDefault(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	goalID, err := led.CreateSavingsGoal(ctx, "Phone", d(t, "1000"), "")
	require.NoError(t, err)

	err = led.AllocateToSavings(ctx, goalID, d(t, "1500"), model.SourceExternal)
	assert.ErrorIs(t, err, common.ErrExceedsTarget)

	goals, err := led.SavingsGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Current.IsZero(), "rejected contribution must not move the counter")
}

func TestAllocateToSavingsClampPolicy(t *testing.T) {
	led, store := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSetting(ctx, SettingOverflowPolicy, OverflowClamp))

	goalID, err := led.CreateSavingsGoal(ctx, "Phone", d(t, "1000"), "")
	require.NoError(t, err)

	require.NoError(t, led.AllocateToSavings(ctx, goalID, d(t, "800"), model.SourceExternal))
	require.NoError(t, led.AllocateToSavings(ctx, goalID, d(t, "500"), model.SourceExternal))

	goals, err := led.SavingsGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Current.Equal(d(t, "1000")), "expected clamp to target 1000, got %s", goals[0].Current)
	assert.True(t, goals[0].Funded())

	// Fully funded goal rejects further contributions even under clamp.
	err = led.AllocateToSavings(ctx, goalID, d(t, "1"), model.SourceExternal)
	assert.ErrorIs(t, err, common.ErrExceedsTarget)
}

func TestAllocateToSavingsUnknownGoal(t *testing.T) {
	led, _ := newTestLedger(t)

	err := led.AllocateToSavings(context.Background(), 999, d(t, "10"), model.SourceExternal)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMonthlyAggregatesRespectPeriod(t *testing.T) {
	led, store := newTestLedger(t)
	ctx := context.Background()

	// One expense inside the pinned month, one well outside it.
	recordExpense(t, led, "150000", "Groceries")

	outside := &model.Transaction{
		ID:          "11111111-1111-1111-1111-111111111111",
		Amount:      d(t, "99999"),
		Description: "old purchase",
		Type:        model.TypeExpense,
		Date:        testNow.AddDate(0, -2, 0),
	}
	require.NoError(t, store.InsertTransaction(ctx, outside))

	spending, err := led.MonthlySpending(ctx)
	require.NoError(t, err)
	assert.True(t, spending.Equal(d(t, "150000")), "expected 150000, got %s", spending)

	daily, err := led.DailySpending(ctx)
	require.NoError(t, err)
	assert.True(t, daily.Equal(d(t, "150000")), "expected 150000, got %s", daily)

	balance, err := led.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(d(t, "-249999")), "balance spans all time, got %s", balance)
}

// TestGajiScenario walks the canonical month: salary in, budget out, a
// savings contribution, and spending against the budget.
func TestGajiScenario(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := led.RecordIncome(ctx, d(t, "1000000"), "Gaji")
	require.NoError(t, err)

	require.NoError(t, led.AllocateToBudget(ctx, d(t, "600000")))

	goalID, err := led.CreateSavingsGoal(ctx, "Dana darurat", d(t, "10000000"), "")
	require.NoError(t, err)
	require.NoError(t, led.AllocateToSavings(ctx, goalID, d(t, "50000"), model.SourceIncome))

	recordExpense(t, led, "35000", "Makan siang")

	available, err := led.AvailableFunds(ctx)
	require.NoError(t, err)
	assert.True(t, available.Equal(d(t, "350000")), "expected 350000, got %s", available)

	budget, err := led.MonthlyBudget(ctx)
	require.NoError(t, err)
	assert.True(t, budget.Equal(d(t, "600000")))

	spending, err := led.MonthlySpending(ctx)
	require.NoError(t, err)
	assert.True(t, spending.Equal(d(t, "35000")))

	saved, err := led.MonthlySavingsContribution(ctx)
	require.NoError(t, err)
	assert.True(t, saved.Equal(d(t, "50000")))

	balance, err := led.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(d(t, "965000")), "allocations must not move the balance, got %s", balance)
}

func TestDeleteSavingsGoalKeepsHistory(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	goalID, err := led.CreateSavingsGoal(ctx, "Motor", d(t, "5000000"), "")
	require.NoError(t, err)
	require.NoError(t, led.AllocateToSavings(ctx, goalID, d(t, "100"), model.SourceExternal))

	require.NoError(t, led.DeleteSavingsGoal(ctx, goalID))

	err = led.DeleteSavingsGoal(ctx, goalID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	txns, err := led.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.NotNil(t, txns[0].SavingID)
	assert.Equal(t, goalID, *txns[0].SavingID)
}

func TestVerifySavingsDriftCleanLedger(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	goalID, err := led.CreateSavingsGoal(ctx, "Motor", d(t, "5000000"), "")
	require.NoError(t, err)
	require.NoError(t, led.AllocateToSavings(ctx, goalID, d(t, "250"), model.SourceExternal))

	drift, err := led.VerifySavingsDrift(ctx)
	require.NoError(t, err)
	assert.Empty(t, drift, "contributions through the ledger must never drift")
}

func recordExpense(t *testing.T, led *Ledger, amount, description string) {
	t.Helper()
	ctx := context.Background()

	cat, err := led.store.GetCategoryByName(ctx, model.CategoryExpense)
	require.NoError(t, err)
	require.NotNil(t, cat)

	_, err = led.RecordExpense(ctx, d(t, amount), description, cat.ID, "")
	require.NoError(t, err)
}
