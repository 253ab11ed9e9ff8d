// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"fmt"

	"wikibase/internal/models"
)

// TaxonomyStore is the storage contract the guard needs. Find methods
// return (nil, nil) when no live entity matches; SoftDeleteCategory
// marks the category and every live subcategory under it dead in a
// single transaction and reports whether anything was marked.
type TaxonomyStore interface {
	FindCategory(ctx context.Context, identifier string) (*models.Category, error)
	FindSubCategory(ctx context.Context, identifier string) (*models.SubCategory, error)
	SoftDeleteCategory(ctx context.Context, identifier string) (bool, error)
}

// Guard enforces the category/subcategory consistency invariants and
// cascades soft-deletion. It never writes outside of
// CascadeDeleteCategory.
type Guard struct {
	store TaxonomyStore
}

// NewGuard returns a Guard over the given taxonomy store.
func NewGuard(store TaxonomyStore) *Guard {
	return &Guard{store: store}
}

// ResolveCategory returns the live category with the given identifier,
// or ErrNotFound when it is absent or soft-deleted.
func (g *Guard) ResolveCategory(ctx context.Context, identifier string) (*models.Category, error) {
	cat, err := g.store.FindCategory(ctx, identifier)
	if err != nil {
		return nil, storageErr("resolve category", err)
	}
	if cat == nil || !cat.Alive() {
		return nil, fmt.Errorf("category %s: %w", identifier, ErrNotFound)
	}
	return cat, nil
}

// ResolveSubCategory returns the live subcategory with the given
// identifier, provided it belongs to expectedCategory. Absence,
// deletion, and membership mismatch all come back as the NotFound
// class; a mismatch additionally matches ErrInvalidHierarchy.
func (g *Guard) ResolveSubCategory(ctx context.Context, identifier, expectedCategory string) (*models.SubCategory, error) {
	sub, err := g.store.FindSubCategory(ctx, identifier)
	if err != nil {
		return nil, storageErr("resolve subcategory", err)
	}
	if sub == nil || !sub.Alive() {
		return nil, fmt.Errorf("subcategory %s: %w", identifier, ErrNotFound)
	}
	if sub.CategoryIdentifier != expectedCategory {
		return nil, fmt.Errorf("subcategory %s: %w", identifier, ErrInvalidHierarchy)
	}
	return sub, nil
}

// CascadeDeleteCategory marks a category and all its live
// subcategories dead as one atomic unit. Previously issued identifiers
// and slugs of records under the category are untouched.
func (g *Guard) CascadeDeleteCategory(ctx context.Context, identifier string) error {
	marked, err := g.store.SoftDeleteCategory(ctx, identifier)
	if err != nil {
		return storageErr("cascade delete category", err)
	}
	if !marked {
		return fmt.Errorf("category %s: %w", identifier, ErrNotFound)
	}
	return nil
}

// storageErr wraps a storage failure, translating deadline expiry into
// the engine's timeout class.
func storageErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}
