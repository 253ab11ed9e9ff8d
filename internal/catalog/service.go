// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wikibase/internal/models"
	"wikibase/internal/slug"
)

const (
	// DefaultStorageTimeout bounds every storage call made by the
	// service. On expiry the operation fails with ErrTimeout and
	// performs no partial mutation.
	DefaultStorageTimeout = 5 * time.Second

	// slugRetryBudget bounds the allocate-then-insert loop. The
	// allocator is a best-effort pre-check; the partial unique index
	// on live slugs is the actual safety net, and a write rejected
	// by it is retried with a freshly read live set.
	slugRetryBudget = 3
)

// RecordStore is the storage contract for information records. Find
// methods return (nil, nil) when no live record matches. Insert and
// Update return ErrSlugTaken when the live-slug unique index rejects
// the write. Update and SoftDelete are guarded by the record's current
// alive state and report whether a row was affected.
type RecordStore interface {
	Insert(ctx context.Context, rec *models.Information) error
	Update(ctx context.Context, rec *models.Information) (bool, error)
	SoftDeleteRecord(ctx context.Context, identifier string, at time.Time) (bool, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.Information, error)
	FindBySlug(ctx context.Context, slug string) (*models.Information, error)
	FindAll(ctx context.Context) ([]models.Information, error)
	FindByCategory(ctx context.Context, categoryIdentifier string) ([]models.Information, error)
	FindBySubCategory(ctx context.Context, subCategoryIdentifier string) ([]models.Information, error)
	LiveSlugs(ctx context.Context) ([]string, error)
}

// FileChecker reports whether an externally managed file exists. The
// engine never creates or mutates files.
type FileChecker interface {
	FileExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service orchestrates the information record lifecycle, composing
// the taxonomy guard, the slug codec/allocator, and the record store.
// It owns no in-process mutable state, so concurrent callers only
// contend in the storage layer.
type Service struct {
	guard   *Guard
	records RecordStore
	files   FileChecker

	// Timeout for each storage call. Defaults to DefaultStorageTimeout.
	Timeout time.Duration
}

// NewService wires a catalog service from its collaborators.
func NewService(taxonomy TaxonomyStore, records RecordStore, files FileChecker) *Service {
	return &Service{
		guard:   NewGuard(taxonomy),
		records: records,
		files:   files,
		Timeout: DefaultStorageTimeout,
	}
}

// Guard exposes the taxonomy guard for callers that manage the
// taxonomy itself (category deletion cascades through it).
func (s *Service) Guard() *Guard {
	return s.guard
}

// CreateParams carries the raw inputs of a create request. Author
// identity arrives pre-authenticated from the caller.
type CreateParams struct {
	CategoryIdentifier    string
	SubCategoryIdentifier string
	Question              string
	Content               string
	FileIdentifier        *uuid.UUID
	AuthorID              uuid.UUID
	AuthorName            string
}

// UpdateParams carries a partial update. Nil fields are left
// untouched. ClearFile removes the file reference; it wins over
// FileIdentifier.
type UpdateParams struct {
	Question              *string
	Content               *string
	CategoryIdentifier    *string
	SubCategoryIdentifier *string
	FileIdentifier        *uuid.UUID
	ClearFile             bool
}

// Create validates the taxonomy pair, derives and allocates a unique
// slug, and persists a new record under a fresh identifier. The record
// becomes visible to reads only once the insert commits.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.Information, error) {
	cat, sub, err := s.resolvePair(ctx, p.CategoryIdentifier, p.SubCategoryIdentifier)
	if err != nil {
		return nil, err
	}

	if p.FileIdentifier != nil {
		if err := s.checkFile(ctx, *p.FileIdentifier); err != nil {
			return nil, err
		}
	}

	base := slug.Compose(cat.Name, sub.Name, p.Question)

	for attempt := 0; attempt < slugRetryBudget; attempt++ {
		live, err := s.liveSlugs(ctx)
		if err != nil {
			return nil, err
		}

		rec := &models.Information{
			Identifier:            NewID(),
			Question:              p.Question,
			Content:               p.Content,
			Slug:                  slug.Allocate(base, live),
			FileIdentifier:        p.FileIdentifier,
			CategoryIdentifier:    cat.Identifier,
			SubCategoryIdentifier: sub.Identifier,
			AuthorID:              p.AuthorID,
			AuthorName:            p.AuthorName,
		}

		err = s.withDeadline(ctx, func(ctx context.Context) error {
			return s.records.Insert(ctx, rec)
		})
		if errors.Is(err, ErrSlugTaken) {
			// Lost a race with a concurrent writer. Re-read the
			// live set and allocate again.
			continue
		}
		if err != nil {
			return nil, storageErr("create record", err)
		}
		return s.FindByIdentifier(ctx, rec.Identifier)
	}

	return nil, fmt.Errorf("create record: %w", ErrConflict)
}

// Update applies a partial update to a live record. Taxonomy changes
// are validated against the effective category/subcategory pair, and
// the slug is re-derived whenever the title, category, or subcategory
// changes.
func (s *Service) Update(ctx context.Context, identifier string, p UpdateParams) (*models.Information, error) {
	rec, err := s.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	effCategory := rec.CategoryIdentifier
	if p.CategoryIdentifier != nil {
		effCategory = *p.CategoryIdentifier
	}
	effSubCategory := rec.SubCategoryIdentifier
	if p.SubCategoryIdentifier != nil {
		effSubCategory = *p.SubCategoryIdentifier
	}

	if p.Question != nil {
		rec.Question = *p.Question
	}
	if p.Content != nil {
		rec.Content = *p.Content
	}
	if p.ClearFile {
		rec.FileIdentifier = nil
	} else if p.FileIdentifier != nil {
		if err := s.checkFile(ctx, *p.FileIdentifier); err != nil {
			return nil, err
		}
		rec.FileIdentifier = p.FileIdentifier
	}

	reslug := p.Question != nil || p.CategoryIdentifier != nil || p.SubCategoryIdentifier != nil
	if reslug {
		cat, sub, err := s.resolvePair(ctx, effCategory, effSubCategory)
		if err != nil {
			return nil, err
		}
		rec.CategoryIdentifier = cat.Identifier
		rec.SubCategoryIdentifier = sub.Identifier

		base := slug.Compose(cat.Name, sub.Name, rec.Question)
		current := rec.Slug

		for attempt := 0; attempt < slugRetryBudget; attempt++ {
			live, err := s.liveSlugs(ctx)
			if err != nil {
				return nil, err
			}
			rec.Slug = slug.ReallocateForUpdate(base, live, current)

			ok, err := s.persistUpdate(ctx, rec)
			if errors.Is(err, ErrSlugTaken) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("record %s: %w", identifier, ErrPreconditionFailed)
			}
			return s.FindByIdentifier(ctx, identifier)
		}
		return nil, fmt.Errorf("update record: %w", ErrConflict)
	}

	ok, err := s.persistUpdate(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("record %s: %w", identifier, ErrPreconditionFailed)
	}
	return s.FindByIdentifier(ctx, identifier)
}

// SoftDelete marks a record dead. The first call succeeds and returns
// an acknowledgment; any later call fails with ErrNotFound because the
// record is no longer visible.
func (s *Service) SoftDelete(ctx context.Context, identifier string) (*models.DeleteAck, error) {
	if _, err := s.FindByIdentifier(ctx, identifier); err != nil {
		return nil, err
	}

	at := time.Now().UTC()
	var ok bool
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		ok, err = s.records.SoftDeleteRecord(ctx, identifier, at)
		return err
	})
	if err != nil {
		return nil, storageErr("delete record", err)
	}
	if !ok {
		// The record vanished between the read and the guarded write.
		return nil, fmt.Errorf("record %s: %w", identifier, ErrPreconditionFailed)
	}

	return &models.DeleteAck{
		Identifier: identifier,
		Message:    "information record deleted",
		DeletedAt:  at,
	}, nil
}

// FindByIdentifier returns a live record or ErrNotFound. Soft-deleted
// records are not surfaced.
func (s *Service) FindByIdentifier(ctx context.Context, identifier string) (*models.Information, error) {
	var rec *models.Information
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		rec, err = s.records.FindByIdentifier(ctx, identifier)
		return err
	})
	if err != nil {
		return nil, storageErr("find record", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("record %s: %w", identifier, ErrNotFound)
	}
	return rec, nil
}

// FindBySlug returns a live record by its full slug, or ErrNotFound.
func (s *Service) FindBySlug(ctx context.Context, slugPath string) (*models.Information, error) {
	var rec *models.Information
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		rec, err = s.records.FindBySlug(ctx, slugPath)
		return err
	})
	if err != nil {
		return nil, storageErr("find record by slug", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("slug %s: %w", slugPath, ErrNotFound)
	}
	return rec, nil
}

// FindAll lists every live record, newest first.
func (s *Service) FindAll(ctx context.Context) ([]models.Information, error) {
	var recs []models.Information
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		recs, err = s.records.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, storageErr("list records", err)
	}
	return recs, nil
}

// FindByCategory lists live records under a category. Records whose
// taxonomy was soft-deleted are excluded from scoped listings even
// though they stay individually fetchable.
func (s *Service) FindByCategory(ctx context.Context, categoryIdentifier string) ([]models.Information, error) {
	var recs []models.Information
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		recs, err = s.records.FindByCategory(ctx, categoryIdentifier)
		return err
	})
	if err != nil {
		return nil, storageErr("list records by category", err)
	}
	return recs, nil
}

// FindBySubCategory lists live records under a subcategory.
func (s *Service) FindBySubCategory(ctx context.Context, subCategoryIdentifier string) ([]models.Information, error) {
	var recs []models.Information
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		recs, err = s.records.FindBySubCategory(ctx, subCategoryIdentifier)
		return err
	})
	if err != nil {
		return nil, storageErr("list records by subcategory", err)
	}
	return recs, nil
}

// resolvePair validates a category/subcategory pair through the guard
// under the storage deadline.
func (s *Service) resolvePair(ctx context.Context, categoryID, subCategoryID string) (*models.Category, *models.SubCategory, error) {
	var (
		cat *models.Category
		sub *models.SubCategory
	)
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		cat, err = s.guard.ResolveCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		sub, err = s.guard.ResolveSubCategory(ctx, subCategoryID, cat.Identifier)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return cat, sub, nil
}

// checkFile verifies a referenced file exists.
func (s *Service) checkFile(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		exists, err = s.files.FileExists(ctx, id)
		return err
	})
	if err != nil {
		return storageErr("check file", err)
	}
	if !exists {
		return fmt.Errorf("file %s: %w", id, ErrNotFound)
	}
	return nil
}

// liveSlugs reads a consistent snapshot of all slugs in use by live
// records.
func (s *Service) liveSlugs(ctx context.Context) (slug.LiveSet, error) {
	var slugs []string
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		slugs, err = s.records.LiveSlugs(ctx)
		return err
	})
	if err != nil {
		return nil, storageErr("read live slugs", err)
	}
	return slug.NewLiveSet(slugs), nil
}

// persistUpdate writes a record under the storage deadline, mapping
// deadline expiry to ErrTimeout and passing ErrSlugTaken through for
// the caller's retry loop.
func (s *Service) persistUpdate(ctx context.Context, rec *models.Information) (bool, error) {
	var ok bool
	err := s.withDeadline(ctx, func(ctx context.Context) error {
		var err error
		ok, err = s.records.Update(ctx, rec)
		return err
	})
	if errors.Is(err, ErrSlugTaken) {
		return false, err
	}
	if err != nil {
		return false, storageErr("update record", err)
	}
	return ok, nil
}

// withDeadline runs one storage call under the configured timeout.
func (s *Service) withDeadline(ctx context.Context, fn func(ctx context.Context) error) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultStorageTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}
