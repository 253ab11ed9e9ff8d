// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the catalog consistency engine: taxonomy
// validation, slug derivation and allocation, and the information
// record lifecycle. It is transport-agnostic — callers get plain
// function calls, entities from the models package, and the sentinel
// errors below, checked with errors.Is.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing entities, soft-deleted entities,
	// and taxonomy membership mismatches. The three are deliberately
	// indistinguishable so error responses cannot be used to probe
	// the taxonomy structure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidHierarchy is raised when a subcategory does not
	// belong to the stated category. It wraps ErrNotFound: callers
	// checking for the NotFound class match it too.
	ErrInvalidHierarchy = fmt.Errorf("subcategory does not belong to category: %w", ErrNotFound)

	// ErrConflict means slug uniqueness was still violated after the
	// allocation retry budget was exhausted.
	ErrConflict = errors.New("slug conflict")

	// ErrTimeout means a storage call exceeded its deadline. The
	// operation performed no partial mutation.
	ErrTimeout = errors.New("storage timeout")

	// ErrPreconditionFailed means a guarded write matched no rows:
	// the record was soft-deleted between validation and the write.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrSlugTaken is returned by record stores when an insert or
	// update trips the unique index on live slugs. The service
	// retries allocation; it never escapes to callers.
	ErrSlugTaken = errors.New("slug already taken")
)
