package model

import "time"

// Category labels transactions for display and aggregation.
type Category struct {
	CreatedAt time.Time
	Name      string
	Icon      string
	ID        int64
}

// Reserved category names the allocation paths resolve at run time. They are
// part of the default seed set and looked up by name, never by id.
const (
	CategoryIncome     = "Income"
	CategoryExpense    = "Expense"
	CategorySavings    = "Savings"
	CategoryAllocation = "Allocation"
)
