package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/worldai/world-api/internal/orchestrator"
	"github.com/worldai/world-api/internal/platform/logger"
	"github.com/worldai/world-api/internal/store"
)

// ExperienceStore persists finished-task summaries to PostgreSQL. It
// implements orchestrator.ExperienceSink.
type ExperienceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewExperienceStore creates an ExperienceStore backed by db.
func NewExperienceStore(db store.DBTX, logger *slog.Logger) *ExperienceStore {
	return &ExperienceStore{
		db:     db,
		logger: logger.With("component", "experience_store"),
	}
}

// Record inserts one experience row. The result (output or structured
// error) is stored as JSONB.
func (s *ExperienceStore) Record(ctx context.Context, exp orchestrator.Experience) error {
	var resultJSON []byte
	if exp.Result != nil {
		var err error
		resultJSON, err = json.Marshal(exp.Result)
		if err != nil {
			return fmt.Errorf("failed to encode experience result: %w", err)
		}
	}

	query := `
		INSERT INTO experiences (id, task_id, task_type, description, agent, status, result, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		exp.TaskID,
		exp.TaskType,
		exp.Description,
		exp.Agent,
		exp.Status,
		resultJSON,
		exp.OccurredAt,
	)
	if err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Error("failed to insert experience",
			"task_id", exp.TaskID,
			"status", exp.Status,
			"error", err)
		return fmt.Errorf("failed to insert experience: %w", MapError(err))
	}

	return nil
}
