// Package errors holds the error types shared by the sales reporting tools.
//
// Errors fall into four groups:
//
//	- invalid identifiers are not errors at all; lookups report "no result"
//	- ErrMissingIdentifier marks a call that supplied no identifier
//	- empty results are zero values, never errors
//	- I/O and parsing failures are AppErrors and abort the run
package errors

import (
	stderrors "errors"
)

var (
	// ErrMissingIdentifier is returned when an identifier check is invoked
	// without an identifier to check.
	ErrMissingIdentifier = stderrors.New("no identifier supplied")

	// ErrInvalidPeriod is returned when a period ends before it begins.
	ErrInvalidPeriod = stderrors.New("period end is before period begin")

	// ErrSheetNotFound is returned when the source workbook lacks a sheet.
	ErrSheetNotFound = stderrors.New("sheet not found")

	// ErrColumnNotFound is returned when a sheet lacks a required column.
	ErrColumnNotFound = stderrors.New("required column not found")

	// ErrUnknownClient is returned when the client table holds an id the
	// identifier check rejects.
	ErrUnknownClient = stderrors.New("client id rejected")
)

// Is is errors.Is, re-exported so callers need a single import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is errors.As, re-exported so callers need a single import.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
