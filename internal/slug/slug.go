// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives deterministic, URL-safe slugs from free text and
// disambiguates them against the set of slugs already in use. A full
// slug has the form categorySlug/subCategorySlug/titleSlug[-N].
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonSlugChars matches anything that isn't a lowercase letter,
	// digit, whitespace, or hyphen.
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun collapses consecutive whitespace into one hyphen.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// hyphenRun collapses consecutive hyphens into one.
	hyphenRun = regexp.MustCompile(`-{2,}`)

	// stripMarks decomposes to NFD and drops combining marks, so
	// "Café" becomes "Cafe" before the ASCII filtering below.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize converts arbitrary text into a slug segment of [a-z0-9-]*.
// It is total (never fails, any input yields a possibly empty segment)
// and idempotent. Example: "Café Müller" → "cafe-muller".
func Normalize(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Compose builds the base slug for an information record from its
// taxonomy names and title. Pure and deterministic: identical inputs
// always yield the same slug, so an update that changes nothing
// relevant recomputes the same value.
// Example: Compose("SMS", "Campanhas", "Como criar?") → "sms/campanhas/como-criar".
func Compose(categoryName, subCategoryName, title string) string {
	return Normalize(categoryName) + "/" + Normalize(subCategoryName) + "/" + Normalize(title)
}
