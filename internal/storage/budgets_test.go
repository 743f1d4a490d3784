package storage

import (
	"context"
	"errors"
	"testing"

	"cekcuan/internal/common"
)

func TestGetMonthlyBudgetAbsentIsZero(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()

	amount, err := store.GetMonthlyBudget(context.Background(), 3, 2024)
	if err != nil {
		t.Fatalf("GetMonthlyBudget failed: %v", err)
	}
	if !amount.IsZero() {
		t.Errorf("expected zero for absent period, got %s", amount)
	}
}

func TestUpsertMonthlyBudgetReplaces(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.UpsertMonthlyBudget(ctx, 3, 2024, mustDecimal(t, "600000")); err != nil {
		t.Fatalf("UpsertMonthlyBudget failed: %v", err)
	}
	if err := store.UpsertMonthlyBudget(ctx, 3, 2024, mustDecimal(t, "750000")); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	amount, err := store.GetMonthlyBudget(ctx, 3, 2024)
	if err != nil {
		t.Fatalf("GetMonthlyBudget failed: %v", err)
	}
	if !amount.Equal(mustDecimal(t, "750000")) {
		t.Errorf("expected replaced amount 750000, got %s", amount)
	}

	// Other periods are untouched.
	other, err := store.GetMonthlyBudget(ctx, 4, 2024)
	if err != nil {
		t.Fatalf("GetMonthlyBudget failed: %v", err)
	}
	if !other.IsZero() {
		t.Errorf("expected zero for untouched period, got %s", other)
	}
}

func TestMonthlyBudgetPeriodValidation(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name  string
		month int
		year  int
	}{
		{"month zero", 0, 2024},
		{"month thirteen", 13, 2024},
		{"year zero", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.GetMonthlyBudget(ctx, tt.month, tt.year); !errors.Is(err, common.ErrValidation) {
				t.Errorf("get: expected ErrValidation, got %v", err)
			}
			if err := store.UpsertMonthlyBudget(ctx, tt.month, tt.year, mustDecimal(t, "1")); !errors.Is(err, common.ErrValidation) {
				t.Errorf("upsert: expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpsertMonthlyBudgetRejectsNegative(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()

	err := store.UpsertMonthlyBudget(context.Background(), 3, 2024, mustDecimal(t, "-1"))
	if !errors.Is(err, common.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	value, err := store.GetSetting(ctx, "display.currency")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty string for unset key, got %q", value)
	}

	if err := store.SaveSetting(ctx, "display.currency", "IDR"); err != nil {
		t.Fatalf("SaveSetting failed: %v", err)
	}
	if err := store.SaveSetting(ctx, "display.currency", "USD"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	value, err = store.GetSetting(ctx, "display.currency")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "USD" {
		t.Errorf("expected USD, got %q", value)
	}
}
