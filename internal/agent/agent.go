// Package agent defines the capability units that execute tasks and the
// router that picks which one handles a given task.
package agent

import (
	"context"

	"github.com/worldai/world-api/internal/domain"
)

// Agent is a capability-specific handler. ProcessTask executes the task
// and returns a structured result payload or an error. Agents may perform
// arbitrary I/O; collaborators (logger, workspace path, generator) are
// injected at construction.
type Agent interface {
	// Name returns the agent's stable identifier.
	Name() string

	// ProcessTask executes the task and returns its result payload.
	ProcessTask(ctx context.Context, task *domain.Task) (map[string]any, error)
}
