package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionTypeValid(t *testing.T) {
	valid := []TransactionType{TypeIncome, TypeExpense, TypeAllocation}
	for _, tt := range valid {
		if !tt.Valid() {
			t.Errorf("%q should be valid", tt)
		}
	}
	invalid := []TransactionType{"", "transfer", "Income"}
	for _, tt := range invalid {
		if tt.Valid() {
			t.Errorf("%q should be invalid", tt)
		}
	}
}

func TestFundSourceValid(t *testing.T) {
	if !SourceIncome.Valid() || !SourceExternal.Valid() {
		t.Error("known sources must be valid")
	}
	for _, s := range []FundSource{"", "loan", "External"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestSavingsGoalRemaining(t *testing.T) {
	goal := SavingsGoal{
		Target:  decimal.RequireFromString("1000"),
		Current: decimal.RequireFromString("400"),
	}
	if want := decimal.RequireFromString("600"); !goal.Remaining().Equal(want) {
		t.Errorf("Remaining = %s, want %s", goal.Remaining(), want)
	}
	if goal.Funded() {
		t.Error("partially funded goal reported as funded")
	}

	goal.Current = decimal.RequireFromString("1000")
	if !goal.Remaining().IsZero() {
		t.Errorf("Remaining at target = %s, want 0", goal.Remaining())
	}
	if !goal.Funded() {
		t.Error("goal at target should be funded")
	}

	// Overfunded (possible via historical data) clamps to zero.
	goal.Current = decimal.RequireFromString("1200")
	if !goal.Remaining().IsZero() {
		t.Errorf("Remaining past target = %s, want 0", goal.Remaining())
	}
}
