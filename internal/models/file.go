// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// File represents an attachment uploaded to S3-compatible object storage.
// Metadata lives in PostgreSQL; the object itself lives in the bucket.
// Information records reference files by ID but never own them.
type File struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	FileName     string    `json:"file_name"`
	S3Key        string    `json:"s3_key"`
	Mimetype     string    `json:"mimetype"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// HumanSize returns a human-readable file size string.
func (f *File) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case f.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(f.SizeBytes)/float64(mb))
	case f.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(f.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", f.SizeBytes)
	}
}
