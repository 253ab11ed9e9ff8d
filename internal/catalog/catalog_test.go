// catalog_test.go provides an in-memory storage fake shared by the
// guard and service tests. It mirrors the guarantees of the real
// Postgres stores: live-only finds, guarded writes, a unique index on
// live slugs, and an atomic category delete cascade.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"wikibase/internal/models"
)

type fakeStore struct {
	mu            sync.Mutex
	categories    map[string]*models.Category
	subCategories map[string]*models.SubCategory
	records       map[string]*models.Information
	files         map[uuid.UUID]bool

	// beforeInsert and beforeUpdate run before the write takes the
	// lock. Tests use them to interleave concurrent writers.
	beforeInsert func()
	beforeUpdate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories:    make(map[string]*models.Category),
		subCategories: make(map[string]*models.SubCategory),
		records:       make(map[string]*models.Information),
		files:         make(map[uuid.UUID]bool),
	}
}

// addCategory seeds a live category with the given name and returns
// its identifier.
func (f *fakeStore) addCategory(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := NewID()
	f.categories[id] = &models.Category{Identifier: id, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	return id
}

// addSubCategory seeds a live subcategory under the given category.
func (f *fakeStore) addSubCategory(name, categoryID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := NewID()
	f.subCategories[id] = &models.SubCategory{
		Identifier:         id,
		Name:               name,
		CategoryIdentifier: categoryID,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	return id
}

// addFile registers an existing file and returns its id.
func (f *fakeStore) addFile() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.files[id] = true
	return id
}

func (f *fakeStore) FindCategory(_ context.Context, identifier string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cat, ok := f.categories[identifier]
	if !ok || cat.Deleted {
		return nil, nil
	}
	clone := *cat
	return &clone, nil
}

func (f *fakeStore) FindSubCategory(_ context.Context, identifier string) (*models.SubCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subCategories[identifier]
	if !ok || sub.Deleted {
		return nil, nil
	}
	clone := *sub
	return &clone, nil
}

func (f *fakeStore) SoftDeleteCategory(_ context.Context, identifier string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cat, ok := f.categories[identifier]
	if !ok || cat.Deleted {
		return false, nil
	}
	now := time.Now()
	cat.MarkDeleted(now)
	for _, sub := range f.subCategories {
		if sub.CategoryIdentifier == identifier && !sub.Deleted {
			sub.MarkDeleted(now)
		}
	}
	return true, nil
}

func (f *fakeStore) Insert(_ context.Context, rec *models.Information) error {
	if f.beforeInsert != nil {
		f.beforeInsert()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.records {
		if !other.Deleted && other.Slug == rec.Slug {
			return fmt.Errorf("insert information: %w", ErrSlugTaken)
		}
	}
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	clone := *rec
	f.records[rec.Identifier] = &clone
	return nil
}

func (f *fakeStore) Update(_ context.Context, rec *models.Information) (bool, error) {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.records[rec.Identifier]
	if !ok || stored.Deleted {
		return false, nil
	}
	for _, other := range f.records {
		if other.Identifier != rec.Identifier && !other.Deleted && other.Slug == rec.Slug {
			return false, fmt.Errorf("update information: %w", ErrSlugTaken)
		}
	}
	clone := *rec
	clone.CreatedAt = stored.CreatedAt
	clone.UpdatedAt = time.Now()
	f.records[rec.Identifier] = &clone
	return true, nil
}

func (f *fakeStore) SoftDeleteRecord(_ context.Context, identifier string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[identifier]
	if !ok || rec.Deleted {
		return false, nil
	}
	rec.MarkDeleted(at)
	return true, nil
}

func (f *fakeStore) FindByIdentifier(_ context.Context, identifier string) (*models.Information, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[identifier]
	if !ok || rec.Deleted {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeStore) FindBySlug(_ context.Context, slug string) (*models.Information, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if !rec.Deleted && rec.Slug == slug {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindAll(_ context.Context) ([]models.Information, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Information
	for _, rec := range f.records {
		if !rec.Deleted {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// FindByCategory mirrors the store's join: a record only shows up in a
// category-scoped listing while its category is still alive.
func (f *fakeStore) FindByCategory(_ context.Context, categoryIdentifier string) ([]models.Information, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cat, ok := f.categories[categoryIdentifier]
	if !ok || cat.Deleted {
		return nil, nil
	}
	var out []models.Information
	for _, rec := range f.records {
		if !rec.Deleted && rec.CategoryIdentifier == categoryIdentifier {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeStore) FindBySubCategory(_ context.Context, subCategoryIdentifier string) ([]models.Information, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subCategories[subCategoryIdentifier]
	if !ok || sub.Deleted {
		return nil, nil
	}
	var out []models.Information
	for _, rec := range f.records {
		if !rec.Deleted && rec.SubCategoryIdentifier == subCategoryIdentifier {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeStore) LiveSlugs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, rec := range f.records {
		if !rec.Deleted {
			out = append(out, rec.Slug)
		}
	}
	return out, nil
}

func (f *fakeStore) FileExists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[id], nil
}

// newTestService builds a service over a fresh fake store.
func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, store, store), store
}
