// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrMutationPending is returned when a mutation is already in flight
	// for the same record or form.
	ErrMutationPending = errors.New("another change is still pending")
	// ErrCancelled is returned when the viewer declines a confirmation.
	ErrCancelled = errors.New("cancelled")
	// ErrNotReady is returned for mutations before the collection loaded.
	ErrNotReady = errors.New("collection is not loaded")
	// ErrUnknownField is returned when sorting by an undeclared field.
	ErrUnknownField = errors.New("unknown field")
)

// ValidationError is a single form-level message for invalid input.
// It never reaches the data source.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// DataSourceError wraps a rejection from the data source.
type DataSourceError struct {
	Op   string // fetch, save, update, delete
	Noun string // blog, product, tutor
	Err  error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Noun, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// Message returns the banner text shown to the viewer.
func (e *DataSourceError) Message() string {
	msg := e.Error()
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// UserMessage converts an error into text suitable for a banner or form.
func UserMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var derr *DataSourceError
	if errors.As(err, &derr) {
		return derr.Message()
	}
	switch {
	case errors.Is(err, ErrMutationPending):
		return "Another change is still pending, please wait"
	case errors.Is(err, ErrNotFound):
		return "Record not found"
	case errors.Is(err, ErrNotReady):
		return "The list is still loading"
	}
	return "Something went wrong"
}
