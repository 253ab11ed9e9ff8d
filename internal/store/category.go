// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all wikibase
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods; every method takes a context so callers can impose
// deadlines on storage calls.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"wikibase/internal/catalog"
	"wikibase/internal/models"
)

// CategoryStore manages the two-level taxonomy in the database. It
// satisfies catalog.TaxonomyStore.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `identifier, name, deleted, deleted_at, created_at, updated_at`
const subCategoryColumns = `identifier, name, category_identifier, deleted, deleted_at, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.Identifier, &c.Name, &c.Deleted, &c.DeletedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// scanSubCategory scans a row into a SubCategory struct.
func scanSubCategory(scanner interface{ Scan(...any) error }) (*models.SubCategory, error) {
	var s models.SubCategory
	err := scanner.Scan(
		&s.Identifier, &s.Name, &s.CategoryIdentifier, &s.Deleted,
		&s.DeletedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new category and, in the same transaction, any
// named subcategories. Either every row lands or none does.
func (s *CategoryStore) Create(ctx context.Context, name string, subCategoryNames []string) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	identifier := catalog.NewID()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO categories (identifier, name)
		VALUES ($1, $2)
	`, identifier, name)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	for _, subName := range subCategoryNames {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sub_categories (identifier, name, category_identifier)
			VALUES ($1, $2, $3)
		`, catalog.NewID(), subName, identifier)
		if err != nil {
			return nil, fmt.Errorf("create subcategory %q: %w", subName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category create: %w", err)
	}

	return s.FindWithSubCategories(ctx, identifier)
}

// FindCategory retrieves a live category by identifier, without its
// subcategories. Returns nil if absent or soft-deleted.
func (s *CategoryStore) FindCategory(ctx context.Context, identifier string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE identifier = $1 AND NOT deleted
	`, identifier)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

// FindWithSubCategories retrieves a live category together with its
// live subcategories. Returns nil if absent or soft-deleted.
func (s *CategoryStore) FindWithSubCategories(ctx context.Context, identifier string) (*models.Category, error) {
	c, err := s.FindCategory(ctx, identifier)
	if err != nil || c == nil {
		return c, err
	}
	c.SubCategories, err = s.ListSubCategories(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all live categories with their live subcategories,
// newest first.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE NOT deleted
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].SubCategories, err = s.ListSubCategories(ctx, items[i].Identifier)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Rename updates a live category's name. Renames do not re-slug
// existing information records. Reports whether a row was updated.
func (s *CategoryStore) Rename(ctx context.Context, identifier, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, updated_at = NOW()
		WHERE identifier = $2 AND NOT deleted
	`, name, identifier)
	if err != nil {
		return false, fmt.Errorf("rename category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SoftDeleteCategory marks a live category and every live subcategory
// under it dead in a single transaction, so no reader observes a
// half-cascaded state. Reports whether the category was marked.
func (s *CategoryStore) SoftDeleteCategory(ctx context.Context, identifier string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE categories SET deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE identifier = $1 AND NOT deleted
	`, identifier)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sub_categories SET deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE category_identifier = $1 AND NOT deleted
	`, identifier)
	if err != nil {
		return false, fmt.Errorf("cascade delete subcategories: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit cascade delete: %w", err)
	}
	return true, nil
}

// CreateSubCategory inserts a new subcategory under an existing
// category. Membership is fixed at creation.
func (s *CategoryStore) CreateSubCategory(ctx context.Context, name, categoryIdentifier string) (*models.SubCategory, error) {
	identifier := catalog.NewID()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO sub_categories (identifier, name, category_identifier)
		VALUES ($1, $2, $3)
		RETURNING `+subCategoryColumns,
		identifier, name, categoryIdentifier,
	)
	sub, err := scanSubCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return sub, nil
}

// FindSubCategory retrieves a live subcategory by identifier. Returns
// nil if absent or soft-deleted.
func (s *CategoryStore) FindSubCategory(ctx context.Context, identifier string) (*models.SubCategory, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+subCategoryColumns+` FROM sub_categories
		WHERE identifier = $1 AND NOT deleted
	`, identifier)
	sub, err := scanSubCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory: %w", err)
	}
	return sub, nil
}

// ListSubCategories returns the live subcategories of a category,
// newest first.
func (s *CategoryStore) ListSubCategories(ctx context.Context, categoryIdentifier string) ([]models.SubCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+subCategoryColumns+` FROM sub_categories
		WHERE category_identifier = $1 AND NOT deleted
		ORDER BY created_at DESC
	`, categoryIdentifier)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.SubCategory
	for rows.Next() {
		sub, err := scanSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, *sub)
	}
	return items, rows.Err()
}

// SoftDeleteSubCategory marks a live subcategory dead. Information
// records referencing it are untouched. Reports whether a row was
// marked.
func (s *CategoryStore) SoftDeleteSubCategory(ctx context.Context, identifier string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sub_categories SET deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE identifier = $1 AND NOT deleted
	`, identifier)
	if err != nil {
		return false, fmt.Errorf("delete subcategory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
