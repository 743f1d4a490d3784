// Package service defines the interfaces between the ledger engine and its
// persistence layer.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"cekcuan/internal/model"
)

// TransactionFilter defines filtering options for history queries. Results
// are always ordered newest first.
type TransactionFilter struct {
	Start *time.Time
	End   *time.Time
	Type  model.TransactionType // empty matches all types
	Limit int                   // 0 means no limit
}

// SavingsDrift reports a cached savings counter that disagrees with the
// transaction-derived total for the same goal.
type SavingsDrift struct {
	Name    string
	GoalID  int64
	Cached  decimal.Decimal
	Derived decimal.Decimal
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Transaction operations
	InsertTransaction(ctx context.Context, txn *model.Transaction) error
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	SumByType(ctx context.Context, t model.TransactionType, start, end *time.Time) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, categoryName string, start, end *time.Time) (decimal.Decimal, error)
	SumSavingsAllocations(ctx context.Context, source model.FundSource) (decimal.Decimal, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	CreateCategory(ctx context.Context, name, icon string) (*model.Category, error)
	DeleteAllCategories(ctx context.Context) error

	// Savings goal operations
	GetSavingsGoals(ctx context.Context) ([]model.SavingsGoal, error)
	GetSavingsGoalByID(ctx context.Context, id int64) (*model.SavingsGoal, error)
	CreateSavingsGoal(ctx context.Context, name string, target decimal.Decimal, color string) (*model.SavingsGoal, error)
	IncrementSavingsCurrent(ctx context.Context, id int64, delta decimal.Decimal) error
	DeleteSavingsGoal(ctx context.Context, id int64) error
	VerifySavingsDrift(ctx context.Context) ([]SavingsDrift, error)

	// Monthly budget operations
	GetMonthlyBudget(ctx context.Context, month, year int) (decimal.Decimal, error)
	UpsertMonthlyBudget(ctx context.Context, month, year int, amount decimal.Decimal) error

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SaveSetting(ctx context.Context, key, value string) error

	// Database management
	Migrate(ctx context.Context) error
	ResetAllData(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is a storage transaction scoping a compound write: every statement
// lands together or none of them do. It exposes only the operations the
// compound writes in the ledger need.
type Tx interface {
	Commit() error
	Rollback() error

	InsertTransaction(ctx context.Context, txn *model.Transaction) error
	IncrementSavingsCurrent(ctx context.Context, id int64, delta decimal.Decimal) error
	GetSavingsGoalByID(ctx context.Context, id int64) (*model.SavingsGoal, error)
	GetMonthlyBudget(ctx context.Context, month, year int) (decimal.Decimal, error)
	UpsertMonthlyBudget(ctx context.Context, month, year int, amount decimal.Decimal) error
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
}
