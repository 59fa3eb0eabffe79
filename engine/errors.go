/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All engine error types in one place. A per-employee computation failure
  is surfaced as an error entry in the batch result and never aborts the
  run or crashes the process.

ERROR CATEGORIES:
  1. Profile errors - unrecognized wage type, unusable schedule
  2. Ruleset errors - malformed or empty statutory tables
  3. Attendance errors - unparseable schedule times

USAGE:
  if errors.Is(err, engine.ErrUnknownWageType) {
      // record against the employee, continue the batch
  }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownWageType is returned when a profile's wage type is not one
	// of MONTHLY, DAILY, HOURLY. Fatal for that employee only.
	ErrUnknownWageType = errors.New("unknown wage type")

	// ErrInvalidProfile is returned when a profile cannot yield rates
	// (zero work days or hours per day).
	ErrInvalidProfile = errors.New("invalid pay profile")

	// ErrEmptyRuleset is returned when a ruleset is missing a required table.
	ErrEmptyRuleset = errors.New("ruleset missing required table")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownWageTypeError identifies the offending wage type.
type UnknownWageTypeError struct {
	WageType WageType
}

func (e *UnknownWageTypeError) Error() string {
	return fmt.Sprintf("unknown wage type %q", e.WageType)
}

func (e *UnknownWageTypeError) Unwrap() error { return ErrUnknownWageType }

// ProfileError identifies an unusable profile field.
type ProfileError struct {
	Field  string
	Reason string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("invalid pay profile: %s: %s", e.Field, e.Reason)
}

func (e *ProfileError) Unwrap() error { return ErrInvalidProfile }

// RulesetError identifies which table of a ruleset is unusable.
type RulesetError struct {
	Table  string
	Reason string
}

func (e *RulesetError) Error() string {
	return fmt.Sprintf("ruleset table %s: %s", e.Table, e.Reason)
}

func (e *RulesetError) Unwrap() error { return ErrEmptyRuleset }

// EmployeeError attributes a computation failure to one employee within a
// batch run.
type EmployeeError struct {
	EmployeeID string
	Err        error
}

func (e *EmployeeError) Error() string {
	return fmt.Sprintf("employee %s: %v", e.EmployeeID, e.Err)
}

func (e *EmployeeError) Unwrap() error { return e.Err }
