/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package syncerror defines the error taxonomy of the step graph and its synchronization.
//
// ValidationError is recoverable at the call site. ConflictError and TransportError abort a
// synchronization run and are returned to the caller unchanged apart from wrapping.
// InvariantViolation signals an internal bug and is raised by panicking.
package syncerror

import (
	"errors"
	"fmt"
)

// ValidationError reports input rejected at mutation time.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// ConflictError reports a mismatch between local state and the remote store, such as a
// committed step that no longer exists remotely.
type ConflictError struct {
	Identity string
	Reason   string
	Err      error
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("conflict on %q: %s", e.Identity, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// TransportError wraps an opaque failure returned by a remote capability call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// InvariantViolation signals an internal bug. It is only ever raised with panic.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "invariant violated: " + e.Detail
}

// Invariant panics with an InvariantViolation when cond is false.
func Invariant(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(&InvariantViolation{Detail: fmt.Sprintf(format, args...)})
	}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}
