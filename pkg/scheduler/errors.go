package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a dragged or targeted item is not in the snapshot
	ErrNotFound = errors.New("scheduler: not found")
	// ErrEmptyPayload is returned when a drop carries neither an event nor an employee
	ErrEmptyPayload = errors.New("scheduler: drop payload is empty")
	// ErrInvalidView is returned by ParseView for unknown view modes
	ErrInvalidView = errors.New("scheduler: invalid view")
	// ErrUnschedulable is wrapped by AutoAssignError
	ErrUnschedulable = errors.New("scheduler: no employee can take the event")
)

// ValidationError captures field level problems with a proposed event
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v.FieldErrors[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any field level issues were recorded
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Add records a field level validation error
func (v *ValidationError) Add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// RejectionError reports that an employee lacks skills a task requires
type RejectionError struct {
	EmployeeID   string
	EmployeeName string
	Required     []string
	Missing      []string
}

// Error implements the error interface
func (r *RejectionError) Error() string {
	name := r.EmployeeName
	if name == "" {
		name = r.EmployeeID
	}
	return fmt.Sprintf("employee %s does not have the required skills: %s", name, strings.Join(r.Required, ", "))
}

// AutoAssignError explains why AutoAssign found nobody
type AutoAssignError struct {
	EventID string
	Reasons []string
}

// Error implements the error interface
func (a *AutoAssignError) Error() string {
	return fmt.Sprintf("no employee can take event %s: %s", a.EventID, strings.Join(a.Reasons, "; "))
}

func (a *AutoAssignError) Unwrap() error {
	return ErrUnschedulable
}
