package category

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cekcuan/internal/common"
	"cekcuan/internal/model"
	"cekcuan/internal/storage"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return NewRegistry(store)
}

func TestAddAndResolve(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	created, err := reg.Add(ctx, "Makanan", "food-fork-drink")
	require.NoError(t, err)
	assert.Equal(t, "Makanan", created.Name)

	resolved, err := reg.Resolve(ctx, "Makanan")
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
	assert.Equal(t, "food-fork-drink", resolved.Icon)
}

func TestAddTrimsWhitespace(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	created, err := reg.Add(ctx, "  Transport  ", "bus")
	require.NoError(t, err)
	assert.Equal(t, "Transport", created.Name)
}

func TestAddRejectsEmptyName(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Add(context.Background(), "   ", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAddRejectsCaseInsensitiveDuplicate(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.Add(ctx, "Makanan", "")
	require.NoError(t, err)

	tests := []string{"Makanan", "makanan", "MAKANAN", "  makanan "}
	for _, name := range tests {
		_, err := reg.Add(ctx, name, "")
		assert.ErrorIs(t, err, common.ErrDuplicateCategory, "name %q", name)
	}
}

func TestAddRejectsSeededNames(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Add(context.Background(), "income", "")
	assert.ErrorIs(t, err, common.ErrDuplicateCategory)
}

func TestGetUnknownID(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Get(context.Background(), 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestResolveUnknownName(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Resolve(context.Background(), "Nonexistent")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListOrderIsStable(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.Add(ctx, "Zebra", "")
	require.NoError(t, err)
	_, err = reg.Add(ctx, "Apple", "")
	require.NoError(t, err)

	first, err := reg.List(ctx)
	require.NoError(t, err)
	second, err := reg.List(ctx)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	// Insertion order, not alphabetical.
	assert.Equal(t, "Zebra", first[len(first)-2].Name)
	assert.Equal(t, "Apple", first[len(first)-1].Name)
}

func TestDeleteAllRestoresSeedSet(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.Add(ctx, "Custom", "")
	require.NoError(t, err)

	require.NoError(t, reg.DeleteAll(ctx))

	cats, err := reg.List(ctx)
	require.NoError(t, err)

	names := make(map[string]bool, len(cats))
	for _, cat := range cats {
		names[cat.Name] = true
	}
	assert.False(t, names["Custom"])
	for _, reserved := range []string{model.CategoryIncome, model.CategoryExpense, model.CategorySavings, model.CategoryAllocation} {
		assert.True(t, names[reserved], "reserved category %q missing after reset", reserved)
	}
}
