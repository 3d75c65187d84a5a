// Package errors provides error handling for qualifier.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrCycle) {
//	    // handle cycle
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Assertions and panics
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the three qualifier failure kinds.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the kind.
var (
	// ErrValidation indicates a record or input is structurally or
	// semantically invalid (empty required field, out-of-range score,
	// ID/content mismatch, cross-subject supersession, malformed span).
	ErrValidation = New("validation failed")

	// ErrCycle indicates a supersession chain or dependency graph
	// contains a cycle. A cyclic structure has no well-defined score,
	// so this is always a hard failure with no partial result.
	ErrCycle = New("cycle detected")

	// ErrCheckFailed indicates an aggregate, user-facing gate failure
	// (scores below threshold). Unlike ErrValidation it is an expected
	// outcome of a successful computation, not a defect; the CLI maps
	// it to exit code 1 without the usual error prefix.
	ErrCheckFailed = New("check failed")
)

// NewValidationError creates a validation error with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return Wrap(ErrValidation, Newf(format, args...).Error())
}

// NewCycleError creates a cycle error naming the structure that contains
// the cycle ("supersession", "dependency graph") and an offending node.
func NewCycleError(context, format string, args ...interface{}) error {
	return Wrapf(ErrCycle, "cycle detected in %s: %s", context, Newf(format, args...).Error())
}

// NewCheckFailedError creates a gate-failure error with a formatted message.
func NewCheckFailedError(format string, args ...interface{}) error {
	return Wrap(ErrCheckFailed, Newf(format, args...).Error())
}

// IsValidation checks if an error is or wraps ErrValidation.
func IsValidation(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsCycle checks if an error is or wraps ErrCycle.
func IsCycle(err error) bool {
	return err != nil && Is(err, ErrCycle)
}

// IsCheckFailed checks if an error is or wraps ErrCheckFailed.
func IsCheckFailed(err error) bool {
	return err != nil && Is(err, ErrCheckFailed)
}
