// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// SoftDelete is embedded by every entity that is removed by marking
// rather than by deleting rows. Deleted is terminal: there is no
// resurrection path for a marked entity.
type SoftDelete struct {
	Deleted   bool       `json:"-"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Alive reports whether the entity has not been soft-deleted.
func (d *SoftDelete) Alive() bool {
	return !d.Deleted
}

// MarkDeleted flips the entity into its terminal deleted state.
func (d *SoftDelete) MarkDeleted(at time.Time) {
	d.Deleted = true
	d.DeletedAt = &at
}
