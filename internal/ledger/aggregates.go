package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"cekcuan/internal/model"
	"cekcuan/internal/period"
)

// The read side of the ledger. Every query is a point-in-time snapshot
// recomputed from the store; nothing here is cached across calls.

// Balance returns total income minus total expenses over all time.
// Allocations are internal transfers and never move the balance.
func (l *Ledger) Balance(ctx context.Context) (decimal.Decimal, error) {
	income, err := l.store.SumByType(ctx, model.TypeIncome, nil, nil)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := l.store.SumByType(ctx, model.TypeExpense, nil, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expenses), nil
}

// MonthlyIncome returns income recorded in the current calendar month.
func (l *Ledger) MonthlyIncome(ctx context.Context) (decimal.Decimal, error) {
	r := period.MonthRange(l.now())
	return l.store.SumByType(ctx, model.TypeIncome, &r.Start, &r.End)
}

// MonthlySpending returns expenses recorded in the current calendar month.
func (l *Ledger) MonthlySpending(ctx context.Context) (decimal.Decimal, error) {
	r := period.MonthRange(l.now())
	return l.store.SumByType(ctx, model.TypeExpense, &r.Start, &r.End)
}

// DailySpending returns expenses recorded today.
func (l *Ledger) DailySpending(ctx context.Context) (decimal.Decimal, error) {
	r := period.DayRange(l.now())
	return l.store.SumByType(ctx, model.TypeExpense, &r.Start, &r.End)
}

// MonthlySavingsContribution returns the month's transactions tagged with
// the Savings category. This is a display aggregate over history; it is not
// the same number as any goal's running total.
func (l *Ledger) MonthlySavingsContribution(ctx context.Context) (decimal.Decimal, error) {
	r := period.MonthRange(l.now())
	return l.store.SumByCategory(ctx, model.CategorySavings, &r.Start, &r.End)
}

// MonthlyBudget returns the current month's budget allocation.
func (l *Ledger) MonthlyBudget(ctx context.Context) (decimal.Decimal, error) {
	now := l.now()
	return l.store.GetMonthlyBudget(ctx, int(now.Month()), now.Year())
}

// AvailableFunds returns the amount eligible for new allocation: all income
// ever recorded, minus the current month's budget, minus every income-
// sourced savings contribution. External contributions are excluded, so
// money added from outside the pool never shrinks it.
func (l *Ledger) AvailableFunds(ctx context.Context) (decimal.Decimal, error) {
	return l.availableFunds(ctx)
}

func (l *Ledger) availableFunds(ctx context.Context) (decimal.Decimal, error) {
	income, err := l.store.SumByType(ctx, model.TypeIncome, nil, nil)
	if err != nil {
		return decimal.Zero, err
	}

	now := l.now()
	budget, err := l.store.GetMonthlyBudget(ctx, int(now.Month()), now.Year())
	if err != nil {
		return decimal.Zero, err
	}

	saved, err := l.store.SumSavingsAllocations(ctx, model.SourceIncome)
	if err != nil {
		return decimal.Zero, err
	}

	return income.Sub(budget).Sub(saved), nil
}
