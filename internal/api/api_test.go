package api

import (
	"context"
	"io"
	"log/slog"

	"github.com/worldai/world-api/internal/agent"
	"github.com/worldai/world-api/internal/domain"
	"github.com/worldai/world-api/internal/orchestrator"
)

// echoAgent returns a fixed output for any task. Shared by handler tests.
type echoAgent struct {
	name string
	fn   func(ctx context.Context, task *domain.Task) (map[string]any, error)
}

func (a *echoAgent) Name() string { return a.name }

func (a *echoAgent) ProcessTask(ctx context.Context, task *domain.Task) (map[string]any, error) {
	if a.fn != nil {
		return a.fn(ctx, task)
	}
	return map[string]any{"echo": task.Description}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testScheduler(cfg orchestrator.Config, agents ...agent.Agent) *orchestrator.Scheduler {
	descriptors := make([]agent.Descriptor, 0, len(agents))
	for _, a := range agents {
		descriptors = append(descriptors, agent.Descriptor{Agent: a})
	}
	return orchestrator.New(agent.NewRouter(descriptors...), nil, cfg, testLogger())
}
