// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category is the top level of the two-level taxonomy. Identifiers are
// opaque strings assigned at creation and immutable thereafter.
type Category struct {
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	SoftDelete

	// SubCategories is populated by store methods that load the
	// category together with its live children.
	SubCategories []SubCategory `json:"sub_categories,omitempty"`
}

// SubCategory belongs to exactly one Category. Its CategoryIdentifier
// never changes after creation; moving a subcategory between categories
// is not supported.
type SubCategory struct {
	Identifier         string    `json:"identifier"`
	Name               string    `json:"name"`
	CategoryIdentifier string    `json:"category_identifier"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	SoftDelete
}
