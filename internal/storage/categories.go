package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"

	"cekcuan/internal/common"
	"cekcuan/internal/model"
)

// defaultCategories is the seed set created at first initialization and
// restored by every destructive reset.
var defaultCategories = []model.Category{
	{Name: model.CategoryIncome, Icon: "cash"},
	{Name: model.CategoryExpense, Icon: "cash-minus"},
	{Name: "Food", Icon: "silverware-fork-knife"},
	{Name: "Shopping", Icon: "shopping-outline"},
	{Name: model.CategorySavings, Icon: "piggy-bank"},
	{Name: model.CategoryAllocation, Icon: "arrow-down-bold-box-outline"},
}

// seedDefaultCategories inserts the seed set, ignoring names that already
// exist so repeated initialization never duplicates rows.
func seedDefaultCategories(ctx context.Context, q dbtx, now time.Time) error {
	query := `INSERT OR IGNORE INTO categories (name, icon, created_at) VALUES (?, ?, ?)`
	for _, cat := range defaultCategories {
		if _, err := q.ExecContext(ctx, query, cat.Name, cat.Icon, formatTimestamp(now)); err != nil {
			return storageErr("seed category "+cat.Name, err)
		}
	}
	return nil
}

// GetCategories returns all categories in insertion order.
func (s *SQLiteStore) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, icon, created_at
		FROM categories
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("query categories", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		categories = append(categories, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate categories", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

func scanCategory(rows *sql.Rows) (*model.Category, error) {
	var (
		cat       model.Category
		createdAt string
	)
	if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &createdAt); err != nil {
		return nil, storageErr("scan category", err)
	}
	when, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at %q for category %d: %w", createdAt, cat.ID, err)
	}
	cat.CreatedAt = when
	return &cat, nil
}

// GetCategoryByName returns a category by exact name, or nil if absent.
func (s *SQLiteStore) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCategoryByName(ctx, s.db, name)
}

func getCategoryByName(ctx context.Context, q dbtx, name string) (*model.Category, error) {
	query := `SELECT id, name, icon, created_at FROM categories WHERE name = ?`

	var (
		cat       model.Category
		createdAt string
	)
	err := q.QueryRowContext(ctx, query, name).Scan(&cat.ID, &cat.Name, &cat.Icon, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("query category", err)
	}

	when, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at %q for category %d: %w", createdAt, cat.ID, err)
	}
	cat.CreatedAt = when
	return &cat, nil
}

// GetCategoryByID returns a category by id, or nil if absent.
func (s *SQLiteStore) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT id, name, icon, created_at FROM categories WHERE id = ?`

	var (
		cat       model.Category
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&cat.ID, &cat.Name, &cat.Icon, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("query category", err)
	}

	when, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at %q for category %d: %w", createdAt, cat.ID, err)
	}
	cat.CreatedAt = when
	return &cat, nil
}

// CreateCategory inserts a new category. The table's UNIQUE constraint on
// name enforces exact-match uniqueness; the case-insensitive check lives in
// the registry, not here.
func (s *SQLiteStore) CreateCategory(ctx context.Context, name, icon string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `INSERT INTO categories (name, icon, created_at) VALUES (?, ?, ?)`

	now := time.Now()
	result, err := s.db.ExecContext(ctx, query, name, icon, formatTimestamp(now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", common.ErrDuplicateCategory, name)
		}
		return nil, storageErr("create category", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, storageErr("get category id", err)
	}

	slog.Info("created category", "name", name, "id", id)
	return &model.Category{
		ID:        id,
		Name:      name,
		Icon:      icon,
		CreatedAt: now.UTC().Truncate(time.Second),
	}, nil
}

// DeleteAllCategories wipes the registry and restores the default seed set
// in a single transaction, so the registry is never observably empty.
func (s *SQLiteStore) DeleteAllCategories(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin category reset", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		_ = tx.Rollback()
		return storageErr("delete categories", err)
	}
	if err := seedDefaultCategories(ctx, tx, time.Now()); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit category reset", err)
	}

	slog.Info("reset categories to default seed set")
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
