package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal is a named target with a running total of contributed funds.
// Current is a cache maintained atomically with the allocation entry that
// funds it; transaction history remains the authoritative record.
type SavingsGoal struct {
	CreatedAt time.Time
	Name      string
	Color     string
	ID        int64
	Target    decimal.Decimal
	Current   decimal.Decimal
}

// Remaining returns how much is still needed to reach the target. Never
// negative.
func (g SavingsGoal) Remaining() decimal.Decimal {
	r := g.Target.Sub(g.Current)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Funded reports whether the goal has reached its target.
func (g SavingsGoal) Funded() bool {
	return g.Current.GreaterThanOrEqual(g.Target)
}
