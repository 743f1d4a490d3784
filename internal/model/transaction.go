package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes external money movement from internal
// transfers between pools.
type TransactionType string

const (
	// TypeIncome represents money entering the tracked pool.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money leaving the tracked pool.
	TypeExpense TransactionType = "expense"
	// TypeAllocation represents an internal transfer into the monthly
	// budget or a savings goal. Allocations never change the balance.
	TypeAllocation TransactionType = "allocation"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeAllocation:
		return true
	default:
		return false
	}
}

// FundSource identifies where allocated money comes from. Income-sourced
// allocations draw down the available funds pool; external ones do not.
type FundSource string

const (
	// SourceIncome draws from the tracked income pool.
	SourceIncome FundSource = "income"
	// SourceExternal is money entering from outside the tracked pool.
	SourceExternal FundSource = "external"
)

// Valid reports whether s is a known fund source.
func (s FundSource) Valid() bool {
	return s == SourceIncome || s == SourceExternal
}

// Transaction is one immutable ledger entry. Entries are never updated or
// deleted individually; corrections are new entries.
type Transaction struct {
	Date         time.Time
	ID           string
	Description  string
	Details      string
	CategoryName string
	CategoryIcon string
	Type         TransactionType
	Source       FundSource // set on allocation entries only
	CategoryID   *int64
	SavingID     *int64
	Amount       decimal.Decimal
}
