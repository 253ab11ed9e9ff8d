// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"wikibase/internal/catalog"
	"wikibase/internal/models"
)

// InformationStore handles information record persistence. It
// satisfies catalog.RecordStore. The partial unique index on live
// slugs is the safety net for the allocator's read-then-write race:
// violations surface as catalog.ErrSlugTaken so the service can retry.
type InformationStore struct {
	db *sql.DB
}

// NewInformationStore creates a new InformationStore with the given
// database connection.
func NewInformationStore(db *sql.DB) *InformationStore {
	return &InformationStore{db: db}
}

// informationSelect reads record columns prefixed i. plus the
// left-joined file columns.
const informationSelect = `
	SELECT i.identifier, i.question, i.content, i.slug, i.file_identifier,
	       i.category_identifier, i.sub_category_identifier,
	       i.author_id, i.author_name, i.deleted, i.deleted_at,
	       i.created_at, i.updated_at,
	       f.id, f.original_name, f.file_name, f.s3_key, f.mimetype,
	       f.size_bytes, f.uploaded_at
	FROM information i
	LEFT JOIN files f ON f.id = i.file_identifier
`

// scanInformation scans a record row including the optional file.
func scanInformation(scanner interface{ Scan(...any) error }) (*models.Information, error) {
	var (
		rec   models.Information
		fID   uuid.NullUUID
		fName sql.NullString
		fOrig sql.NullString
		fKey  sql.NullString
		fMime sql.NullString
		fSize sql.NullInt64
		fUp   sql.NullTime
	)
	err := scanner.Scan(
		&rec.Identifier, &rec.Question, &rec.Content, &rec.Slug, &rec.FileIdentifier,
		&rec.CategoryIdentifier, &rec.SubCategoryIdentifier,
		&rec.AuthorID, &rec.AuthorName, &rec.Deleted, &rec.DeletedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
		&fID, &fOrig, &fName, &fKey, &fMime, &fSize, &fUp,
	)
	if err != nil {
		return nil, err
	}
	if fID.Valid {
		rec.File = &models.File{
			ID:           fID.UUID,
			OriginalName: fOrig.String,
			FileName:     fName.String,
			S3Key:        fKey.String,
			Mimetype:     fMime.String,
			SizeBytes:    fSize.Int64,
			UploadedAt:   fUp.Time,
		}
	}
	return &rec, nil
}

// Insert persists a new record. A collision on the live-slug unique
// index comes back as catalog.ErrSlugTaken.
func (s *InformationStore) Insert(ctx context.Context, rec *models.Information) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO information (identifier, question, content, slug, file_identifier,
		                         category_identifier, sub_category_identifier,
		                         author_id, author_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.Identifier, rec.Question, rec.Content, rec.Slug, rec.FileIdentifier,
		rec.CategoryIdentifier, rec.SubCategoryIdentifier,
		rec.AuthorID, rec.AuthorName,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("insert information: %w", catalog.ErrSlugTaken)
	}
	if err != nil {
		return fmt.Errorf("insert information: %w", err)
	}
	return nil
}

// Update rewrites a record's mutable fields, guarded by its current
// alive state so a concurrent soft-delete cannot be overwritten.
// Reports whether a row matched; slug collisions come back as
// catalog.ErrSlugTaken.
func (s *InformationStore) Update(ctx context.Context, rec *models.Information) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE information SET
			question = $1, content = $2, slug = $3, file_identifier = $4,
			category_identifier = $5, sub_category_identifier = $6,
			updated_at = NOW()
		WHERE identifier = $7 AND NOT deleted
	`, rec.Question, rec.Content, rec.Slug, rec.FileIdentifier,
		rec.CategoryIdentifier, rec.SubCategoryIdentifier, rec.Identifier,
	)
	if isUniqueViolation(err) {
		return false, fmt.Errorf("update information: %w", catalog.ErrSlugTaken)
	}
	if err != nil {
		return false, fmt.Errorf("update information: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SoftDeleteRecord marks a live record dead, guarded by its current
// alive state. Reports whether a row was marked.
func (s *InformationStore) SoftDeleteRecord(ctx context.Context, identifier string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE information SET deleted = TRUE, deleted_at = $2, updated_at = $2
		WHERE identifier = $1 AND NOT deleted
	`, identifier, at)
	if err != nil {
		return false, fmt.Errorf("delete information: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindByIdentifier retrieves a live record by identifier. Returns nil
// if absent or soft-deleted.
func (s *InformationStore) FindByIdentifier(ctx context.Context, identifier string) (*models.Information, error) {
	row := s.db.QueryRowContext(ctx, informationSelect+`
		WHERE i.identifier = $1 AND NOT i.deleted
	`, identifier)
	rec, err := scanInformation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find information: %w", err)
	}
	return rec, nil
}

// FindBySlug retrieves a live record by its full slug. Returns nil if
// absent or soft-deleted.
func (s *InformationStore) FindBySlug(ctx context.Context, slug string) (*models.Information, error) {
	row := s.db.QueryRowContext(ctx, informationSelect+`
		WHERE i.slug = $1 AND NOT i.deleted
	`, slug)
	rec, err := scanInformation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find information by slug: %w", err)
	}
	return rec, nil
}

// FindAll returns every live record, newest first.
func (s *InformationStore) FindAll(ctx context.Context) ([]models.Information, error) {
	return s.query(ctx, informationSelect+`
		WHERE NOT i.deleted
		ORDER BY i.created_at DESC
	`)
}

// FindByCategory returns live records under a live category. Records
// whose category was cascade-deleted drop out of the listing while
// remaining fetchable directly.
func (s *InformationStore) FindByCategory(ctx context.Context, categoryIdentifier string) ([]models.Information, error) {
	return s.query(ctx, informationSelect+`
		JOIN categories c ON c.identifier = i.category_identifier
		WHERE i.category_identifier = $1 AND NOT i.deleted AND NOT c.deleted
		ORDER BY i.created_at DESC
	`, categoryIdentifier)
}

// FindBySubCategory returns live records under a live subcategory.
func (s *InformationStore) FindBySubCategory(ctx context.Context, subCategoryIdentifier string) ([]models.Information, error) {
	return s.query(ctx, informationSelect+`
		JOIN sub_categories sc ON sc.identifier = i.sub_category_identifier
		WHERE i.sub_category_identifier = $1 AND NOT i.deleted AND NOT sc.deleted
		ORDER BY i.created_at DESC
	`, subCategoryIdentifier)
}

// LiveSlugs returns a snapshot of every slug in use by a live record.
func (s *InformationStore) LiveSlugs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug FROM information WHERE NOT deleted
	`)
	if err != nil {
		return nil, fmt.Errorf("list live slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// query runs a multi-row record select.
func (s *InformationStore) query(ctx context.Context, q string, args ...any) ([]models.Information, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list information: %w", err)
	}
	defer rows.Close()

	var items []models.Information
	for rows.Next() {
		rec, err := scanInformation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan information: %w", err)
		}
		items = append(items, *rec)
	}
	return items, rows.Err()
}

// isUniqueViolation reports whether err is a Postgres unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
