// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"fmt"
	"strings"
)

// LiveSet is the set of slugs currently in use by non-deleted records.
type LiveSet map[string]struct{}

// NewLiveSet builds a LiveSet from a slice of slugs.
func NewLiveSet(slugs []string) LiveSet {
	set := make(LiveSet, len(slugs))
	for _, s := range slugs {
		set[s] = struct{}{}
	}
	return set
}

// Allocate returns base unchanged when it does not collide with the
// live set. On collision it appends -1, -2, ... to the last path
// segment until a free slug is found. Suffixes start at 1, increase
// strictly, and freed suffixes are never reused.
func Allocate(base string, live LiveSet) string {
	if _, taken := live[base]; !taken {
		return base
	}

	parts := strings.Split(base, "/")
	last := parts[len(parts)-1]
	for n := 1; ; n++ {
		parts[len(parts)-1] = fmt.Sprintf("%s-%d", last, n)
		candidate := strings.Join(parts, "/")
		if _, taken := live[candidate]; !taken {
			return candidate
		}
	}
}

// ReallocateForUpdate allocates a slug for an existing record. The
// record's current slug is excluded from the comparison set first, so
// a record never collides with itself and keeps its slug when the
// recomputed base is unchanged.
func ReallocateForUpdate(base string, live LiveSet, current string) string {
	if _, ok := live[current]; ok {
		rest := make(LiveSet, len(live))
		for s := range live {
			if s != current {
				rest[s] = struct{}{}
			}
		}
		live = rest
	}
	return Allocate(base, live)
}
