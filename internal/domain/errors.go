package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrTaskNotFound is returned when a registry lookup misses.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTransition is returned when a task lifecycle transition
	// violates the monotonic pending → processing → {completed, failed}
	// order. Raising it indicates a bug: the public API should make it
	// unreachable.
	ErrInvalidTransition = errors.New("invalid task status transition")

	// ErrNoAgentAvailable is returned when the router exhausts all
	// descriptors, including the fallback, without a match.
	ErrNoAgentAvailable = errors.New("no agent available for task")

	// ErrAgentExecution wraps any failure raised by an agent's ProcessTask.
	ErrAgentExecution = errors.New("agent execution failed")

	// ErrSchedulerStopped is returned on submission after shutdown began.
	ErrSchedulerStopped = errors.New("scheduler is stopped")

	// ErrTimeout is returned when a bounded wait elapses.
	ErrTimeout = errors.New("operation timed out")

	// ErrValidation is returned when a request or entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")
)
