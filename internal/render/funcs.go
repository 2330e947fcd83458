// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/markgaal068/bigHITS/internal/model"
)

// Funcs returns the template function map shared by all pages.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatDate,
		"formatDateTime": func(t time.Time) string { return t.Format("Jan 2, 2006 3:04 PM") },
		"price":          Price,
		"salePrice": func(p *float64) string {
			if p == nil {
				return ""
			}
			return Price(*p)
		},
		"rating":   func(r float64) string { return strconv.FormatFloat(r, 'f', 1, 64) },
		"truncate": Truncate,
		"join":     strings.Join,
		"list":     model.SplitList,
		"markdown": Markdown,
		"add":      func(a, b int) int { return a + b },
	}
}

// formatDate accepts both record dates ("2006-01-02") and timestamps.
func formatDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format("Jan 2, 2006")
	case string:
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			return d
		}
		return t.Format("Jan 2, 2006")
	}
	return ""
}

// Price formats an amount in dollars with two decimals.
func Price(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// Truncate shortens s to at most n runes, adding an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
