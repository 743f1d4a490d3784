package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"cekcuan/internal/common"
	"cekcuan/internal/model"
	"cekcuan/internal/service"
)

// GetSavingsGoals returns all savings goals in creation order.
func (s *SQLiteStore) GetSavingsGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, target, current, bg_color, created_at
		FROM savings
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("query savings goals", err)
	}
	defer rows.Close()

	var goals []model.SavingsGoal
	for rows.Next() {
		var (
			goal                        model.SavingsGoal
			target, current, createdAt string
		)
		if err := rows.Scan(&goal.ID, &goal.Name, &target, &current, &goal.Color, &createdAt); err != nil {
			return nil, storageErr("scan savings goal", err)
		}
		if err := fillSavingsAmounts(&goal, target, current, createdAt); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate savings goals", err)
	}

	slog.Debug("retrieved savings goals", "count", len(goals))
	return goals, nil
}

// GetSavingsGoalByID returns a savings goal by id, or nil if absent.
func (s *SQLiteStore) GetSavingsGoalByID(ctx context.Context, id int64) (*model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getSavingsGoalByID(ctx, s.db, id)
}

func getSavingsGoalByID(ctx context.Context, q dbtx, id int64) (*model.SavingsGoal, error) {
	query := `
		SELECT id, name, target, current, bg_color, created_at
		FROM savings WHERE id = ?`

	var (
		goal                        model.SavingsGoal
		target, current, createdAt string
	)
	err := q.QueryRowContext(ctx, query, id).Scan(&goal.ID, &goal.Name, &target, &current, &goal.Color, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("query savings goal", err)
	}
	if err := fillSavingsAmounts(&goal, target, current, createdAt); err != nil {
		return nil, err
	}
	return &goal, nil
}

func fillSavingsAmounts(goal *model.SavingsGoal, target, current, createdAt string) error {
	parsedTarget, err := decimal.NewFromString(target)
	if err != nil {
		return fmt.Errorf("corrupt target %q for goal %d: %w", target, goal.ID, err)
	}
	parsedCurrent, err := decimal.NewFromString(current)
	if err != nil {
		return fmt.Errorf("corrupt current %q for goal %d: %w", current, goal.ID, err)
	}
	when, err := parseTimestamp(createdAt)
	if err != nil {
		return fmt.Errorf("corrupt created_at %q for goal %d: %w", createdAt, goal.ID, err)
	}
	goal.Target = parsedTarget
	goal.Current = parsedCurrent
	goal.CreatedAt = when
	return nil
}

// CreateSavingsGoal inserts a new goal with a zero running total.
func (s *SQLiteStore) CreateSavingsGoal(ctx context.Context, name string, target decimal.Decimal, color string) (*model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if err := validateAmount(target, "target"); err != nil {
		return nil, err
	}

	query := `INSERT INTO savings (name, target, current, bg_color, created_at) VALUES (?, ?, '0', ?, ?)`

	now := time.Now()
	result, err := s.db.ExecContext(ctx, query, name, target.String(), color, formatTimestamp(now))
	if err != nil {
		return nil, storageErr("create savings goal", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, storageErr("get savings goal id", err)
	}

	slog.Info("created savings goal", "name", name, "id", id, "target", target)
	return &model.SavingsGoal{
		ID:        id,
		Name:      name,
		Color:     color,
		Target:    target,
		Current:   decimal.Zero,
		CreatedAt: now.UTC().Truncate(time.Second),
	}, nil
}

// IncrementSavingsCurrent adds delta to the goal's running total. The
// read-modify-write runs in its own transaction; compound allocation writes
// use the Tx variant instead so the increment lands with its ledger entry.
func (s *SQLiteStore) IncrementSavingsCurrent(ctx context.Context, id int64, delta decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin savings increment", err)
	}
	if err := incrementSavingsCurrent(ctx, tx, id, delta); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit savings increment", err)
	}
	return nil
}

// incrementSavingsCurrent recomputes current in Go so the addition stays in
// exact decimal arithmetic.
func incrementSavingsCurrent(ctx context.Context, q dbtx, id int64, delta decimal.Decimal) error {
	goal, err := getSavingsGoalByID(ctx, q, id)
	if err != nil {
		return err
	}
	if goal == nil {
		return fmt.Errorf("%w: savings goal %d", common.ErrNotFound, id)
	}

	updated := goal.Current.Add(delta)
	if updated.IsNegative() {
		return fmt.Errorf("%w: savings goal %d would go negative", common.ErrValidation, id)
	}

	if _, err := q.ExecContext(ctx, `UPDATE savings SET current = ? WHERE id = ?`, updated.String(), id); err != nil {
		return storageErr("update savings current", err)
	}
	return nil
}

// DeleteSavingsGoal removes a goal. Historical transactions keep their
// saving_id as an advisory reference.
func (s *SQLiteStore) DeleteSavingsGoal(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM savings WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete savings goal", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("check delete result", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: savings goal %d", common.ErrNotFound, id)
	}

	slog.Info("deleted savings goal", "id", id)
	return nil
}

// VerifySavingsDrift compares each goal's cached running total against the
// sum of its allocation history and reports any disagreement. The cache is
// maintained atomically with its ledger entry, so a non-empty result means
// the database was modified outside this store.
func (s *SQLiteStore) VerifySavingsDrift(ctx context.Context) ([]service.SavingsDrift, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	goals, err := s.GetSavingsGoals(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []service.SavingsDrift
	for _, goal := range goals {
		derived, sumErr := s.sumAmounts(ctx,
			`SELECT amount FROM transactions WHERE type = ? AND saving_id = ?`,
			string(model.TypeAllocation), goal.ID)
		if sumErr != nil {
			return nil, sumErr
		}
		if !derived.Equal(goal.Current) {
			drifts = append(drifts, service.SavingsDrift{
				Name:    goal.Name,
				GoalID:  goal.ID,
				Cached:  goal.Current,
				Derived: derived,
			})
		}
	}

	if len(drifts) > 0 {
		slog.Warn("savings counters drifted from transaction history", "goals", len(drifts))
	}
	return drifts, nil
}
