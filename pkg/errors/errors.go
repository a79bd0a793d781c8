// Package errors provides custom error types for the roster system.
// These errors enable programmatic error checking across the merge engine,
// the dataset stores and the dashboard API.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Join are re-exported so callers only need a single errors import.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Common sentinel errors for the roster system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrColumnMissing indicates that an expected column is not in the schema
	ErrColumnMissing = errors.New("column missing")

	// ErrUnsupportedFormat indicates a dataset location with an unknown format
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ColumnError reports a column that a command needs but the dataset lacks.
type ColumnError struct {
	Column  string
	Dataset string
}

// Error implements the error interface
func (e *ColumnError) Error() string {
	if e.Dataset != "" {
		return fmt.Sprintf("column %q not found in %s", e.Column, e.Dataset)
	}
	return fmt.Sprintf("column %q not found", e.Column)
}

// Is implements errors.Is support
func (e *ColumnError) Is(target error) bool {
	return target == ErrColumnMissing
}

// NewColumnError creates a new ColumnError
func NewColumnError(column, dataset string) *ColumnError {
	return &ColumnError{Column: column, Dataset: dataset}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// MergeError represents an error during a merge pass.
// Row is the zero-based incoming row, or -1 when the failure is not row specific.
type MergeError struct {
	Stage string // "resolve", "index", "classify", "assemble"
	Row   int
	Err   error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("merge failed at %s (incoming row %d): %v", e.Stage, e.Row, e.Err)
	}
	return fmt.Sprintf("merge failed at %s: %v", e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError
func NewMergeError(stage string, row int, err error) *MergeError {
	return &MergeError{
		Stage: stage,
		Row:   row,
		Err:   err,
	}
}

// StoreError represents a failure inside a dataset store backend
type StoreError struct {
	Backend   string // "csv", "xlsx", "sqlite", "memory"
	Operation string // "load", "save", "backup"
	Location  string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s store %s failed for %s: %v", e.Backend, e.Operation, e.Location, e.Err)
	}
	return fmt.Sprintf("%s store %s failed: %v", e.Backend, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError
func NewStoreError(backend, operation, location string, err error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Location:  location,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsColumnMissing checks if an error reports a missing column
func IsColumnMissing(err error) bool {
	return errors.Is(err, ErrColumnMissing)
}

// IsUnsupportedFormat checks if an error reports an unknown dataset format
func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "xlsx", "yaml", etc.
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
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
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "backup"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapStore wraps an error as a StoreError
func WrapStore(backend, operation, location string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError(backend, operation, location, err)
}

// WrapMerge wraps an error as a MergeError
func WrapMerge(stage string, row int, err error) error {
	if err == nil {
		return nil
	}
	return NewMergeError(stage, row, err)
}
