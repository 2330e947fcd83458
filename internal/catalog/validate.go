// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog binds the blog, product and tutor record types to the
// generic collection machinery: schemas, validation, draft conversion and
// the demo fixtures.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/util"
)

// Form-level messages.
const (
	MsgRequired       = "Please fill in all required fields"
	MsgPrice          = "Price must be a positive number"
	MsgSalePrice      = "Sale price must be a positive number"
	MsgStock          = "Stock must be a non-negative number"
	MsgRate           = "Rate must be a positive number"
	MsgCalendly       = "Please enter a valid Calendly link"
	MsgTitleSlug      = "Title must contain at least one letter or digit"
	MsgNameSlug       = "Name must contain at least one letter or digit"
	notBlankTag       = "notblank"
	calendlyHost      = "calendly.com"
	positiveNumberTag = "positive_number"
	nonNegativeIntTag = "non_negative_int"
	calendlyTag       = "calendly"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Whitespace-only input counts as missing.
	_ = v.RegisterValidation(notBlankTag, validators.NotBlank)
	_ = v.RegisterValidation(positiveNumberTag, func(fl validator.FieldLevel) bool {
		n, ok := parseFinite(fl.Field().String())
		return ok && n > 0
	})
	_ = v.RegisterValidation(nonNegativeIntTag, func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 64)
		return err == nil && n >= 0
	})
	_ = v.RegisterValidation(calendlyTag, func(fl validator.FieldLevel) bool {
		return strings.Contains(fl.Field().String(), calendlyHost)
	})
	return v
}

// parseFinite parses a float and rejects NaN and infinities.
func parseFinite(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ValidateBlog checks a blog draft.
func ValidateBlog(d model.BlogDraft) error {
	return checkWithSlug(d, d.Slug, d.Title, MsgTitleSlug)
}

// ValidateProduct checks a product draft.
func ValidateProduct(d model.ProductDraft) error {
	return checkWithSlug(d, d.Slug, d.Name, MsgNameSlug)
}

// ValidateTutor checks a tutor draft.
func ValidateTutor(d model.TutorDraft) error {
	return checkWithSlug(d, d.Slug, d.Name, MsgNameSlug)
}

// checkWithSlug validates draft and then makes sure a non-empty slug can be
// derived, so a punctuation-only title is refused before any save.
func checkWithSlug(draft any, slug, title, msg string) error {
	if err := check(draft); err != nil {
		return err
	}
	if util.NormalizeSlug(slug, title) == "" {
		return collection.NewValidationError(msg)
	}
	return nil
}

// check validates a draft and reduces the result to one message. Missing
// required fields are reported before any other problem; otherwise the
// first failing field in declaration order wins.
func check(draft any) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return collection.NewValidationError(MsgRequired)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" || fe.Tag() == notBlankTag {
			return collection.NewValidationError(MsgRequired)
		}
	}
	return collection.NewValidationError(message(verrs[0]))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case positiveNumberTag:
		switch fe.Field() {
		case "sale_price":
			return MsgSalePrice
		case "rate":
			return MsgRate
		default:
			return MsgPrice
		}
	case nonNegativeIntTag:
		return MsgStock
	case calendlyTag:
		return MsgCalendly
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label(fe.Field()), fe.Param())
	}
	return MsgRequired
}

// label turns a JSON field name into a sentence-case label.
func label(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
