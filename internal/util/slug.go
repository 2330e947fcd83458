// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides URL slug generation and validation shared by the
// admin forms and the public catalog routes.
package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	// slugStripRegex matches everything that is neither a lowercase ASCII
	// letter, a digit nor whitespace. Hyphens and underscores are stripped
	// too, so "E-commerce" becomes "ecommerce".
	slugStripRegex = regexp.MustCompile(`[^a-z0-9\s]+`)
	// whitespaceRun matches consecutive whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Slugify converts a title or name to a URL-friendly slug.
// Non-ASCII text is transliterated first, then the result is lowercased,
// stripped of punctuation and whitespace runs are collapsed to one hyphen.
func Slugify(s string) string {
	result := unidecode.Unidecode(s)

	result = strings.ToLower(result)

	result = slugStripRegex.ReplaceAllString(result, "")

	result = strings.TrimSpace(result)

	return whitespaceRun.ReplaceAllString(result, "-")
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	// Check if it only contains lowercase letters, numbers, and hyphens
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	// Check that it doesn't start or end with a hyphen
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	// Check for consecutive hyphens
	if strings.Contains(s, "--") {
		return false
	}

	return true
}

// NormalizeSlug returns slug when it is already valid, a slugified version
// of it otherwise, and falls back to the slug of title when nothing is left.
func NormalizeSlug(slug, title string) string {
	if IsValidSlug(slug) {
		return slug
	}
	if s := Slugify(slug); s != "" {
		return s
	}
	return Slugify(title)
}
