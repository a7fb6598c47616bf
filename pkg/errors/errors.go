// Package errors provides custom error types for the strom engine.
// These errors enable programmatic error checking with errors.Is/As and
// consistent messages across the matching and merge layers.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is.
var Is = errors.Is

// As finds the first error in err's chain matching target.
// It's an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the strom engine
var (
	// ErrNotFound indicates that a requested record was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a record already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrBackupMissing indicates that a backup key resolves to nothing
	ErrBackupMissing = errors.New("backup missing")

	// ErrStateConsumed indicates a merge state that was already executed
	ErrStateConsumed = errors.New("merge state already consumed")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AlreadyExistsError represents a duplicate-id insertion
type AlreadyExistsError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with ID %s already exists", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(resource, id string) *AlreadyExistsError {
	return &AlreadyExistsError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// MergeError represents an error during merge execution
type MergeError struct {
	Step    string // "backup", "clone", "merge", "add", "partnerships", "repair"
	ID      string // record id being processed, if any
	Message string
	Err     error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("merge failed during %s of %s: %s", e.Step, e.ID, e.Message)
	}
	return fmt.Sprintf("merge failed during %s: %s", e.Step, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError
func NewMergeError(step, id string, err error) *MergeError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &MergeError{Step: step, ID: id, Message: message, Err: err}
}

// BackupError represents a backup store failure
type BackupError struct {
	Operation string // "create", "restore", "delete"
	Key       string
	Err       error
}

// Error implements the error interface
func (e *BackupError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("backup %s failed for key %s: %v", e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("backup %s failed: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *BackupError) Unwrap() error {
	return e.Err
}

// NewBackupError creates a new BackupError
func NewBackupError(operation, key string, err error) *BackupError {
	return &BackupError{Operation: operation, Key: key, Err: err}
}

// ParseError represents an error when decoding tree files or snapshots
type ParseError struct {
	Format  string // "yaml", "json"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapMerge wraps an error as a MergeError
func WrapMerge(step, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewMergeError(step, id, err)
}
