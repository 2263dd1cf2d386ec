package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the lifecycle core. Persistence failures are not
// part of this taxonomy; they propagate from the storage layer as-is.
var (
	// ErrNotFound indicates the requested experiment does not exist.
	ErrNotFound = errors.New("experiment not found")

	// ErrForbidden indicates the actor is not the experiment's owner.
	ErrForbidden = errors.New("actor does not own this experiment")

	// ErrLocked indicates the experiment's status no longer permits
	// configuration changes. Ended experiments are frozen entirely.
	ErrLocked = errors.New("experiment is locked and cannot be edited")

	// ErrStatusConflict indicates a concurrent transition won the race;
	// the caller must re-evaluate against the updated status.
	ErrStatusConflict = errors.New("experiment status changed concurrently")
)

// InvalidTransitionError indicates the requested status is not reachable
// from the experiment's current status. Deterministic: retrying with the
// same arguments fails identically.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// GoLiveValidationError carries the ordered list of unmet go-live
// conditions. Callers display all of them together.
type GoLiveValidationError struct {
	Errors []string
}

func (e *GoLiveValidationError) Error() string {
	return "experiment cannot go live: " + strings.Join(e.Errors, "; ")
}

// ValidationError carries structural validation failures from experiment
// creation or draft edits.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}
