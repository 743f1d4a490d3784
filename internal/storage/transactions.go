package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cekcuan/internal/common"
	"cekcuan/internal/model"
	"cekcuan/internal/service"
)

// InsertTransaction persists one immutable ledger entry.
func (s *SQLiteStore) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return insertTransaction(ctx, s.db, txn)
}

func insertTransaction(ctx context.Context, q dbtx, txn *model.Transaction) error {
	query := `
		INSERT INTO transactions (id, amount, description, details, type, source, category_id, saving_id, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := q.ExecContext(ctx, query,
		txn.ID,
		txn.Amount.String(),
		txn.Description,
		txn.Details,
		string(txn.Type),
		nullString(string(txn.Source)),
		nullInt64(txn.CategoryID),
		nullInt64(txn.SavingID),
		formatTimestamp(txn.Date),
	)
	if err != nil {
		return storageErr("insert transaction", err)
	}

	slog.Debug("inserted transaction", "id", txn.ID, "type", txn.Type, "amount", txn.Amount)
	return nil
}

// ListTransactions returns ledger entries newest first, with category name
// and icon joined in for display.
func (s *SQLiteStore) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT t.id, t.amount, t.description, t.details, t.type, t.source,
		       t.category_id, t.saving_id, t.date, c.name, c.icon
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id`)

	var conds []string
	var args []any
	if filter.Type != "" {
		conds = append(conds, "t.type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Start != nil {
		conds = append(conds, "t.date >= ?")
		args = append(args, formatTimestamp(*filter.Start))
	}
	if filter.End != nil {
		conds = append(conds, "t.date <= ?")
		args = append(args, formatTimestamp(*filter.End))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY t.date DESC, t.id DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageErr("query transactions", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate transactions", err)
	}

	slog.Debug("retrieved transactions", "count", len(txns))
	return txns, nil
}

func scanTransaction(rows *sql.Rows) (*model.Transaction, error) {
	var (
		txn                  model.Transaction
		amount, date         string
		source               sql.NullString
		categoryID, savingID sql.NullInt64
		catName, catIcon     sql.NullString
	)
	if err := rows.Scan(&txn.ID, &amount, &txn.Description, &txn.Details, &txn.Type,
		&source, &categoryID, &savingID, &date, &catName, &catIcon); err != nil {
		return nil, storageErr("scan transaction", err)
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount %q for transaction %s: %w", amount, txn.ID, err)
	}
	txn.Amount = parsed

	when, err := parseTimestamp(date)
	if err != nil {
		return nil, fmt.Errorf("corrupt date %q for transaction %s: %w", date, txn.ID, err)
	}
	txn.Date = when

	if source.Valid {
		txn.Source = model.FundSource(source.String)
	}
	if categoryID.Valid {
		txn.CategoryID = &categoryID.Int64
	}
	if savingID.Valid {
		txn.SavingID = &savingID.Int64
	}
	txn.CategoryName = catName.String
	txn.CategoryIcon = catIcon.String

	return &txn, nil
}

// SumByType returns the exact decimal sum of all entries of the given type,
// optionally scoped to an inclusive date range.
func (s *SQLiteStore) SumByType(ctx context.Context, t model.TransactionType, start, end *time.Time) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if !t.Valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown transaction type %q", common.ErrValidation, t)
	}

	query := `SELECT amount FROM transactions WHERE type = ?`
	args := []any{string(t)}
	query, args = appendDateRange(query, args, "date", start, end)

	return s.sumAmounts(ctx, query, args...)
}

// SumByCategory returns the exact decimal sum of all entries tagged with the
// named category, optionally scoped to an inclusive date range.
func (s *SQLiteStore) SumByCategory(ctx context.Context, categoryName string, start, end *time.Time) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateString(categoryName, "categoryName"); err != nil {
		return decimal.Zero, err
	}

	query := `
		SELECT t.amount FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE c.name = ?`
	args := []any{categoryName}
	query, args = appendDateRange(query, args, "t.date", start, end)

	return s.sumAmounts(ctx, query, args...)
}

// SumSavingsAllocations returns the exact decimal sum of all savings-bound
// allocation entries drawn from the given fund source, over all time.
func (s *SQLiteStore) SumSavingsAllocations(ctx context.Context, source model.FundSource) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if !source.Valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown fund source %q", common.ErrValidation, source)
	}

	query := `
		SELECT amount FROM transactions
		WHERE type = ? AND saving_id IS NOT NULL AND source = ?`

	return s.sumAmounts(ctx, query, string(model.TypeAllocation), string(source))
}

func appendDateRange(query string, args []any, column string, start, end *time.Time) (string, []any) {
	if start != nil {
		query += " AND " + column + " >= ?"
		args = append(args, formatTimestamp(*start))
	}
	if end != nil {
		query += " AND " + column + " <= ?"
		args = append(args, formatTimestamp(*end))
	}
	return query, args
}

// sumAmounts adds decimal TEXT amounts in Go. SQLite's SUM would coerce the
// column to REAL and reintroduce float drift.
func (s *SQLiteStore) sumAmounts(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, storageErr("query amounts", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, storageErr("scan amount", err)
		}
		amount, parseErr := decimal.NewFromString(raw)
		if parseErr != nil {
			return decimal.Zero, fmt.Errorf("corrupt amount %q: %w", raw, parseErr)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, storageErr("iterate amounts", err)
	}

	return total, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
