package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/worldai/world-api/internal/domain"
)

// Experience is the summary of a finished task forwarded to the external
// memory/experience sink after each terminal transition.
type Experience struct {
	TaskID      uuid.UUID          `json:"task_id"`
	TaskType    string             `json:"task_type,omitempty"`
	Description string             `json:"description"`
	Agent       string             `json:"agent,omitempty"`
	Status      domain.TaskStatus  `json:"status"`
	Result      *domain.TaskResult `json:"result,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// ExperienceSink receives task outcomes for durable storage. Persistence is
// delegated entirely to the sink; the scheduler only forwards summaries and
// treats sink failures as non-fatal.
type ExperienceSink interface {
	Record(ctx context.Context, exp Experience) error
}

// NopSink discards experiences. Used when no durable store is configured.
type NopSink struct{}

// Record discards the experience.
func (NopSink) Record(context.Context, Experience) error { return nil }

// newExperience builds the sink summary for a terminal task record.
func newExperience(task domain.Task) Experience {
	return Experience{
		TaskID:      task.ID,
		TaskType:    task.Type,
		Description: task.Description,
		Agent:       task.AssignedAgent,
		Status:      task.Status,
		Result:      task.Result,
		OccurredAt:  time.Now().UTC(),
	}
}
