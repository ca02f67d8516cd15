/*
errors.go - Centralized error types for the working-time engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context; the API
  layer maps them to HTTP status codes through IsClientError/IsNotFound.

ERROR CATEGORIES:
  1. Calendar references - ISO weeks, months and dates that do not exist
  2. Working-time contracts - precondition failures on create/update/delete
  3. Lookups - persons, contracts or records that are unknown

USAGE:
    if errors.Is(err, core.ErrInvalidCalendarReference) {
        // 400
    }

SEE ALSO:
  - week.go: Produces CalendarReferenceError
  - workingtime/service.go: Produces WorkingTimeError
  - api/handlers.go: Maps errors to HTTP status
*/
package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidCalendarReference is returned for ISO weeks, months or dates
	// that do not exist (e.g. week 54, month 13, "2024-02-30").
	ErrInvalidCalendarReference = errors.New("invalid calendar reference")

	// ErrInvalidWorkingTime is returned when a working-time contract change
	// violates the ordering rules or targets an unknown contract.
	ErrInvalidWorkingTime = errors.New("unknown or invalid working-time contract")

	// ErrWorkingTimeNotFound is returned alongside ErrInvalidWorkingTime when
	// the referenced contract does not exist.
	ErrWorkingTimeNotFound = errors.New("working-time contract not found")

	// ErrPersonNotFound is returned when a referenced person doesn't exist.
	ErrPersonNotFound = errors.New("person not found")

	// ErrNotFound is returned by stores for any other missing record.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidAbsence is returned when an absence is malformed.
	ErrInvalidAbsence = errors.New("invalid absence")

	// ErrInvalidTimeEntry is returned when a time entry is malformed.
	ErrInvalidTimeEntry = errors.New("invalid time entry")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CalendarReferenceError names the offending reference.
type CalendarReferenceError struct {
	Reference string
	Reason    string
}

func (e *CalendarReferenceError) Error() string {
	return fmt.Sprintf("invalid calendar reference %q: %s", e.Reference, e.Reason)
}

func (e *CalendarReferenceError) Unwrap() error {
	return ErrInvalidCalendarReference
}

// WorkingTimeError provides details about a rejected contract change.
// NotFound distinguishes a missing contract from a rule violation; both
// match ErrInvalidWorkingTime.
type WorkingTimeError struct {
	WorkingTimeID string
	PersonID      PersonID
	Reason        string
	NotFound      bool
}

func (e *WorkingTimeError) Error() string {
	if e.WorkingTimeID == "" {
		return fmt.Sprintf("working time of person %s: %s", e.PersonID, e.Reason)
	}
	return fmt.Sprintf("working time %s of person %s: %s", e.WorkingTimeID, e.PersonID, e.Reason)
}

func (e *WorkingTimeError) Unwrap() []error {
	if e.NotFound {
		return []error{ErrInvalidWorkingTime, ErrWorkingTimeNotFound}
	}
	return []error{ErrInvalidWorkingTime}
}

// ValidationError reports a malformed absence or time entry field.
type ValidationError struct {
	Kind    error // ErrInvalidAbsence or ErrInvalidTimeEntry
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Kind, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// =============================================================================
// HELPERS
// =============================================================================

// IsClientError reports whether err was caused by caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidCalendarReference) ||
		errors.Is(err, ErrInvalidWorkingTime) ||
		errors.Is(err, ErrInvalidAbsence) ||
		errors.Is(err, ErrInvalidTimeEntry)
}

// IsNotFound reports whether err denotes a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPersonNotFound) ||
		errors.Is(err, ErrWorkingTimeNotFound) ||
		errors.Is(err, ErrNotFound)
}
