// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
// Slugs double as stable keys for categories, so the transform is
// deterministic and idempotent.
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
	// nonSlugChars matches anything that isn't a word character, whitespace, or hyphen.
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	// whitespaceRuns collapses consecutive whitespace into one hyphen.
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// fold decomposes accented letters and drops the combining marks, so
// "Reseña" folds to "Resena". Unicode spaces become plain spaces.
func fold(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return ' '
			}
			return r
		}),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate creates a URL-friendly slug from the given string.
// Example: "Análisis colectivo" → "analisis-colectivo"
func Generate(s string) string {
	result := fold(strings.ToLower(s))
	result = nonSlugChars.ReplaceAllString(result, "")
	result = strings.TrimSpace(result)
	result = whitespaceRuns.ReplaceAllString(result, "-")
	return result
}

// Fold lower-cases s and strips diacritics without slugifying it. Search
// uses it to compare text accent-insensitively.
func Fold(s string) string {
	return strings.ToLower(fold(s))
}
