// Package category manages the category registry on top of the ledger
// store. The store enforces exact-match uniqueness; the registry adds the
// trimmed, case-insensitive check the UI contract requires.
package category

import (
	"context"
	"fmt"
	"strings"

	"cekcuan/internal/common"
	"cekcuan/internal/model"
	"cekcuan/internal/service"
)

// Registry validates category mutations before delegating to the store.
type Registry struct {
	store service.Storage
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store service.Storage) *Registry {
	return &Registry{store: store}
}

// List returns all categories in insertion order. The order is stable
// across calls absent mutation.
func (r *Registry) List(ctx context.Context) ([]model.Category, error) {
	return r.store.GetCategories(ctx)
}

// Get returns a category by id, or ErrNotFound.
func (r *Registry) Get(ctx context.Context, id int64) (*model.Category, error) {
	cat, err := r.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	return cat, nil
}

// Resolve returns a category by exact name, or ErrNotFound.
func (r *Registry) Resolve(ctx context.Context, name string) (*model.Category, error) {
	cat, err := r.store.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, name)
	}
	return cat, nil
}

// Add creates a new category. Names are trimmed and must not collide with
// an existing name under case folding, even though the store itself would
// accept a different-cased duplicate.
func (r *Registry) Add(ctx context.Context, name, icon string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", common.ErrValidation)
	}

	existing, err := r.store.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, cat := range existing {
		if strings.EqualFold(cat.Name, name) {
			return nil, fmt.Errorf("%w: %q collides with %q", common.ErrDuplicateCategory, name, cat.Name)
		}
	}

	return r.store.CreateCategory(ctx, name, icon)
}

// DeleteAll destructively resets the registry to the default seed set. The
// store wipes and re-seeds in one transaction, so callers never observe an
// empty registry.
func (r *Registry) DeleteAll(ctx context.Context) error {
	return r.store.DeleteAllCategories(ctx)
}
