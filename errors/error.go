// Package errors defines the typed errors produced by sifread. Each typed error
// matches one of the exported sentinels via errors.Is, so callers may test for
// a category of failure without depending on the concrete type.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord is matched by MalformedRecordError
	ErrMalformedRecord = errors.New("malformed record")
	// ErrTableNotFound is matched by TableNotFoundError
	ErrTableNotFound = errors.New("table or view not found")
	// ErrTableAlreadyExists is matched by TableAlreadyExistsError
	ErrTableAlreadyExists = errors.New("table or view already exists")
	// ErrUnsupportedFormat is matched by UnsupportedFormatError
	ErrUnsupportedFormat = errors.New("unsupported data format")
	// ErrInvalidOption is matched by InvalidOptionError
	ErrInvalidOption = errors.New("invalid option")
	// ErrSQLSyntax is matched by SQLSyntaxError
	ErrSQLSyntax = errors.New("sql syntax error")
	// ErrNoInputFiles is returned when a path or glob matches no files
	ErrNoInputFiles = errors.New("path matched no input files")
)

// NilValueError occurs when a value in a Row is nil
type NilValueError struct{ Name string }

// Error returns a textual representation of this NilValueError
func (e NilValueError) Error() string {
	return fmt.Sprintf("Value for column %s is nil", e.Name)
}

// IncompatibleRowError occurs when a Row's width does not match an expected Schema
type IncompatibleRowError struct {
	Expected int
	Actual   int
}

// Error returns a textual representation of this IncompatibleRowError
func (e IncompatibleRowError) Error() string {
	return fmt.Sprintf("Row width %d is not compatible with Schema of %d columns", e.Actual, e.Expected)
}

// PartitionFullError occurs when a Partition has reached its max size and a new Row insertion is attempted
type PartitionFullError struct{}

// Error returns a textual representation of this PartitionFullError
func (e PartitionFullError) Error() string {
	return "Partition is full"
}

// NoMorePartitionsError occurs when there are no more partitions in a PartitionIterator
type NoMorePartitionsError struct{}

// Error returns a textual representation of this NoMorePartitionsError
func (e NoMorePartitionsError) Error() string {
	return "No more partitions"
}

// MalformedRecordError occurs when a record does not conform to a Schema and the read is in FAILFAST mode
type MalformedRecordError struct {
	Path   string // the file (or buffer) containing the record
	Line   int    // 1-based line number of the record within Path
	Record string // the raw text of the record
	Cause  error  // why the record is malformed
}

// Error returns a textual representation of this MalformedRecordError
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("Malformed record detected in %s, line %d: %q: %v", e.Path, e.Line, e.Record, e.Cause)
}

// Unwrap returns the reason this record is malformed
func (e *MalformedRecordError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrMalformedRecord
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// TableNotFoundError occurs when a table or temporary view name cannot be resolved
type TableNotFoundError struct{ Name string }

// Error returns a textual representation of this TableNotFoundError
func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("Table or view not found: %s", e.Name)
}

// Is reports whether target is ErrTableNotFound
func (e *TableNotFoundError) Is(target error) bool {
	return target == ErrTableNotFound
}

// TableAlreadyExistsError occurs when creating a table or temporary view whose name is taken
type TableAlreadyExistsError struct{ Name string }

// Error returns a textual representation of this TableAlreadyExistsError
func (e *TableAlreadyExistsError) Error() string {
	return fmt.Sprintf("Table or view %s already exists", e.Name)
}

// Is reports whether target is ErrTableAlreadyExists
func (e *TableAlreadyExistsError) Is(target error) bool {
	return target == ErrTableAlreadyExists
}

// UnsupportedFormatError occurs when a reader or writer is asked for an unknown data format
type UnsupportedFormatError struct{ Format string }

// Error returns a textual representation of this UnsupportedFormatError
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Unsupported data format %q", e.Format)
}

// Is reports whether target is ErrUnsupportedFormat
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// InvalidOptionError occurs when a reader or writer option has an unusable value
type InvalidOptionError struct {
	Option string
	Value  string
	Reason string
}

// Error returns a textual representation of this InvalidOptionError
func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("Invalid value %q for option %s: %s", e.Value, e.Option, e.Reason)
}

// Is reports whether target is ErrInvalidOption
func (e *InvalidOptionError) Is(target error) bool {
	return target == ErrInvalidOption
}

// SQLSyntaxError occurs when a query cannot be parsed
type SQLSyntaxError struct {
	Query  string
	Pos    int
	Reason string
}

// Error returns a textual representation of this SQLSyntaxError
func (e *SQLSyntaxError) Error() string {
	return fmt.Sprintf("Syntax error at position %d: %s", e.Pos, e.Reason)
}

// Is reports whether target is ErrSQLSyntax
func (e *SQLSyntaxError) Is(target error) bool {
	return target == ErrSQLSyntax
}
