package services

import (
	"errors"
	"fmt"
)

// Call-level failures. Per-item failures (role mismatches, dropped
// entities) are collected into result payloads instead.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrMissingUpdater = errors.New("updater is required")

	// ErrEntityNotAssigned: the entity is in neither the task's client
	// set nor its prospect set.
	ErrEntityNotAssigned = errors.New("entity is not assigned to this task")
)

// NoValidAssignmentsError is returned when every requested assignment
// failed validation; it carries the per-item reasons.
type NoValidAssignmentsError struct {
	Errors []string
}

func (e *NoValidAssignmentsError) Error() string {
	return fmt.Sprintf("no valid assignments: %d items rejected", len(e.Errors))
}

func (e *NoValidAssignmentsError) Is(target error) bool { return target == ErrValidation }
