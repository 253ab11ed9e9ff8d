// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Information is a knowledge-base article, addressed both by its opaque
// identifier and by a globally unique slug of the form
// categorySlug/subCategorySlug/titleSlug[-N].
//
// Invariant: SubCategoryIdentifier must denote a subcategory whose
// owning category equals CategoryIdentifier. The catalog service
// enforces this on every create and update.
type Information struct {
	Identifier            string     `json:"identifier"`
	Question              string     `json:"question"`
	Content               string     `json:"content"`
	Slug                  string     `json:"slug"`
	FileIdentifier        *uuid.UUID `json:"file_identifier,omitempty"`
	CategoryIdentifier    string     `json:"category_identifier"`
	SubCategoryIdentifier string     `json:"sub_category_identifier"`
	AuthorID              uuid.UUID  `json:"author_id"`
	AuthorName            string     `json:"author_name"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	SoftDelete

	// File is populated on reads when FileIdentifier is set.
	File *File `json:"file,omitempty"`
}

// DeleteAck acknowledges a successful soft-delete.
type DeleteAck struct {
	Identifier string    `json:"identifier"`
	Message    string    `json:"message"`
	DeletedAt  time.Time `json:"deleted_at"`
}
