package orchestrator

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldai/world-api/internal/domain"
)

func TestTaskRegistry_Create(t *testing.T) {
	t.Parallel()

	r := NewTaskRegistry()

	task, err := r.Create("command", "analyze data", map[string]any{"source": "s3"}, 2)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, 2, task.Priority)

	stored, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, stored.ID)

	_, err = r.Create("", "", nil, 0)
	assert.Error(t, err)
}

func TestTaskRegistry_GetNotFound(t *testing.T) {
	t.Parallel()

	r := NewTaskRegistry()

	_, err := r.Get(uuid.New())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRegistry_TransitionLifecycle(t *testing.T) {
	t.Parallel()

	r := NewTaskRegistry()
	task, err := r.Create("", "send email", nil, 0)
	require.NoError(t, err)

	require.NoError(t, r.Transition(task.ID, domain.TaskStatusProcessing, nil, "communication"))

	processing, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusProcessing, processing.Status)
	assert.Equal(t, "communication", processing.AssignedAgent)
	assert.Nil(t, processing.Result)

	result := &domain.TaskResult{Output: map[string]any{"content": "hi"}}
	require.NoError(t, r.Transition(task.ID, domain.TaskStatusCompleted, result, "communication"))

	completed, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, completed.Status)
	assert.Equal(t, result, completed.Result)
	require.NotNil(t, completed.CompletedAt)
}

func TestTaskRegistry_InvalidTransitions(t *testing.T) {
	t.Parallel()

	r := NewTaskRegistry()

	t.Run("pending to completed", func(t *testing.T) {
		task, err := r.Create("", "task a", nil, 0)
		require.NoError(t, err)
		err = r.Transition(task.ID, domain.TaskStatusCompleted, nil, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("terminal is never revisited", func(t *testing.T) {
		task, err := r.Create("", "task b", nil, 0)
		require.NoError(t, err)
		require.NoError(t, r.Transition(task.ID, domain.TaskStatusProcessing, nil, "general"))
		require.NoError(t, r.Transition(task.ID, domain.TaskStatusFailed,
			&domain.TaskResult{Error: &domain.TaskError{Kind: domain.ErrorKindAgentExecution, Message: "boom"}}, ""))

		for _, next := range []domain.TaskStatus{
			domain.TaskStatusPending,
			domain.TaskStatusProcessing,
			domain.TaskStatusCompleted,
			domain.TaskStatusFailed,
		} {
			err := r.Transition(task.ID, next, nil, "")
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "transition to %s", next)
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		err := r.Transition(uuid.New(), domain.TaskStatusProcessing, nil, "")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func TestTaskRegistry_ListByStatus(t *testing.T) {
	t.Parallel()

	r := NewTaskRegistry()
	a, _ := r.Create("", "task a", nil, 0)
	b, _ := r.Create("", "task b", nil, 0)
	require.NoError(t, r.Transition(b.ID, domain.TaskStatusProcessing, nil, "data"))

	pending := r.ListByStatus(domain.TaskStatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	assert.Len(t, r.ListByStatus(domain.TaskStatusProcessing), 1)
	assert.Empty(t, r.ListByStatus(domain.TaskStatusCompleted))
}

func TestTaskRegistry_Counts(t *testing.T) {
	t.Parallel()

	r := NewTaskRegistry()
	_, _ = r.Create("", "one", nil, 0)
	b, _ := r.Create("", "two", nil, 0)
	c, _ := r.Create("", "three", nil, 0)
	require.NoError(t, r.Transition(b.ID, domain.TaskStatusProcessing, nil, "data"))
	require.NoError(t, r.Transition(c.ID, domain.TaskStatusProcessing, nil, "data"))
	require.NoError(t, r.Transition(c.ID, domain.TaskStatusCompleted, &domain.TaskResult{}, ""))

	counts := r.Counts()
	assert.Equal(t, StatusCounts{Total: 3, Pending: 1, Processing: 1, Completed: 1, Failed: 0}, counts)
}

func TestTaskRegistry_PurgeStale(t *testing.T) {
	t.Parallel()

	r := NewTaskRegistry()

	old, _ := r.Create("", "old completed", nil, 0)
	require.NoError(t, r.Transition(old.ID, domain.TaskStatusProcessing, nil, "general"))
	require.NoError(t, r.Transition(old.ID, domain.TaskStatusCompleted, &domain.TaskResult{}, ""))

	stuck, _ := r.Create("", "old but processing", nil, 0)
	require.NoError(t, r.Transition(stuck.ID, domain.TaskStatusProcessing, nil, "general"))

	fresh, _ := r.Create("", "fresh pending", nil, 0)

	// Backdate all records past the retention cutoff.
	r.mu.Lock()
	for _, task := range r.tasks {
		task.CreatedAt = task.CreatedAt.Add(-2 * time.Hour)
	}
	r.mu.Unlock()

	removed := r.PurgeStale(time.Hour)
	assert.Equal(t, 1, removed)

	_, err := r.Get(old.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	// Processing and pending tasks survive regardless of age.
	_, err = r.Get(stuck.ID)
	assert.NoError(t, err)
	_, err = r.Get(fresh.ID)
	assert.NoError(t, err)
}
