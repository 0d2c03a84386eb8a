package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNoRosterFound = errors.New("no roster found")
	ErrRowRejected   = errors.New("row rejected")
)

// ErrorKind is a coarse-grained categorization for errors and warnings.
type ErrorKind string

const (
	KindNoRosterFound        ErrorKind = "no_roster_found"
	KindMissingRequiredField ErrorKind = "missing_required_field"
	KindColumnCountMismatch  ErrorKind = "column_count_mismatch"
	KindDuplicateIdentifier  ErrorKind = "duplicate_identifier"
	KindLowConfidenceName    ErrorKind = "low_confidence_name"
	KindUncertainPhone       ErrorKind = "uncertain_phone"
	KindInvalidEmail         ErrorKind = "invalid_email"
	KindMissingPhoto         ErrorKind = "missing_photo"
)

// Rejects reports whether a diagnostic of this kind means the row was
// left out of the output.
func (k ErrorKind) Rejects() bool {
	switch k {
	case KindMissingRequiredField, KindColumnCountMismatch, KindDuplicateIdentifier:
		return true
	}
	return false
}

// Error is a structural failure that aborts a run.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RowError is a row-local failure. The row is excluded from output and the
// run continues.
type RowError struct {
	Row   int
	Kind  ErrorKind
	Field string
	Msg   string
}

func (e *RowError) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := fmt.Sprintf("row %d: %s", e.Row, e.Kind)
	if e.Field != "" {
		s += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func (e *RowError) Unwrap() error { return ErrRowRejected }

// Diagnostic converts the error into its reportable form.
func (e *RowError) Diagnostic() Diagnostic {
	return Diagnostic{Row: e.Row, Kind: e.Kind, Field: e.Field, Message: e.Msg}
}

// FieldWarning is a non-fatal note about one field. The zero value means
// "no warning".
type FieldWarning struct {
	Kind  ErrorKind
	Field string
	Msg   string
}

// IsZero reports whether w carries no warning.
func (w FieldWarning) IsZero() bool { return w.Kind == "" }

// Diagnostic attaches w to a row.
func (w FieldWarning) Diagnostic(row int) Diagnostic {
	return Diagnostic{Row: row, Kind: w.Kind, Field: w.Field, Message: w.Msg}
}

// IsKind helps callers classify errors without depending on stage packages.
func IsKind(err error, kind ErrorKind) bool {
	var re *RowError
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
