// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownArchitecture is returned if the architecture key is absent or
	// names an unsupported architecture.
	ErrUnknownArchitecture = errors.New("unknown architecture")

	// ErrMissingRequiredField is returned if a field required by the
	// architecture is absent or empty.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidValue is returned if a field has a value outside of its
	// allowed set or format.
	ErrInvalidValue = errors.New("invalid value")

	// ErrEmptyValue is returned if a field that has no meaningful empty value
	// is present but empty.
	ErrEmptyValue = errors.New("must not be empty")

	// ErrMalformedLine is returned for lines that are not assignments.
	ErrMalformedLine = errors.New("not a KEY=value assignment")

	// ErrNotRegularFile is returned if a path that must name a file names
	// something else.
	ErrNotRegularFile = errors.New("not a regular file")
)

// FieldError describes a problem with a single configuration field.
type FieldError struct {
	Key         string
	Description string
	Value       string
	Err         error
}

// Error implements the [error] interface.
func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s (%s): %v", e.Key, e.Description, e.Err)
	if e.Value != "" {
		msg += fmt.Sprintf(": %q", e.Value)
	}

	return msg
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// SchemaError collects all schema violations of a configuration unit.
type SchemaError struct {
	Path   string
	Fields []*FieldError
}

// Error implements the [error] interface.
func (e *SchemaError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		msgs = append(msgs, field.Error())
	}

	return fmt.Sprintf("config %s: %d problem(s): %s",
		e.Path, len(e.Fields), strings.Join(msgs, "; "))
}

// Is implements the [errors.Is] interface.
func (*SchemaError) Is(other error) bool {
	_, ok := other.(*SchemaError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface for multiple errors.
func (e *SchemaError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, field := range e.Fields {
		errs = append(errs, field)
	}

	return errs
}

// Keys returns the keys of all fields that failed with the given error.
func (e *SchemaError) Keys(target error) []string {
	var keys []string

	for _, field := range e.Fields {
		if errors.Is(field, target) {
			keys = append(keys, field.Key)
		}
	}

	return keys
}

// ResourceNotFoundError is returned if a path that must exist before launch
// does not name a readable file.
type ResourceNotFoundError struct {
	Key  string
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *ResourceNotFoundError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Path, e.Err)
	if e.Key != "" {
		msg = e.Key + " " + msg
	}

	return "resource not found: " + msg
}

// Is implements the [errors.Is] interface.
func (*ResourceNotFoundError) Is(other error) bool {
	_, ok := other.(*ResourceNotFoundError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ResourceNotFoundError) Unwrap() error {
	return e.Err
}

// ParseError is returned if a configuration unit can not be read.
type ParseError struct {
	Path string
	Line int
	Err  error
}

// Error implements the [error] interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}

	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

// Is implements the [errors.Is] interface.
func (*ParseError) Is(other error) bool {
	_, ok := other.(*ParseError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ParseError) Unwrap() error {
	return e.Err
}
