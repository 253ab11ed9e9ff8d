// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"wikibase/internal/models"
)

// FileStore handles attachment metadata. The objects themselves live
// in S3-compatible storage; the catalog engine only ever asks whether
// a file exists. Satisfies catalog.FileChecker.
type FileStore struct {
	db *sql.DB
}

// NewFileStore creates a new FileStore with the given database connection.
func NewFileStore(db *sql.DB) *FileStore {
	return &FileStore{db: db}
}

const fileColumns = `id, original_name, file_name, s3_key, mimetype, size_bytes, uploaded_at`

// Create inserts file metadata and returns it with the generated ID.
func (s *FileStore) Create(ctx context.Context, f *models.File) (*models.File, error) {
	result := &models.File{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO files (original_name, file_name, s3_key, mimetype, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+fileColumns,
		f.OriginalName, f.FileName, f.S3Key, f.Mimetype, f.SizeBytes,
	).Scan(
		&result.ID, &result.OriginalName, &result.FileName, &result.S3Key,
		&result.Mimetype, &result.SizeBytes, &result.UploadedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return result, nil
}

// FindByID retrieves file metadata by ID. Returns nil if not found.
func (s *FileStore) FindByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	f := &models.File{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+fileColumns+` FROM files WHERE id = $1
	`, id).Scan(
		&f.ID, &f.OriginalName, &f.FileName, &f.S3Key,
		&f.Mimetype, &f.SizeBytes, &f.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	return f, nil
}

// FileExists reports whether a file with the given ID exists.
func (s *FileStore) FileExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM files WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("file exists: %w", err)
	}
	return exists, nil
}

// Delete removes file metadata. Fails while any information record
// still references the file (RESTRICT foreign key).
func (s *FileStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
