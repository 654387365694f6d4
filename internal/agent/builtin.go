package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/worldai/world-api/internal/domain"
	"github.com/worldai/world-api/internal/generation"
)

// Built-in agent names.
const (
	NameCoding        = "coding"
	NameData          = "data"
	NameCommunication = "communication"
	NameBusiness      = "business"
	NameAnalytics     = "analytics"
	NameGeneral       = "general"
)

// Capability keyword tables for the built-in agents. Evaluated in the
// order DefaultDescriptors registers them; the general agent is the
// fallback and matches anything.
var (
	CodingKeywords        = []string{"code", "program", "script", "build", "create", "develop"}
	DataKeywords          = []string{"scrape", "data", "collect", "extract", "analyze"}
	CommunicationKeywords = []string{"chat", "message", "email", "communicate"}
	BusinessKeywords      = []string{"sales", "lead", "business", "marketing"}
	AnalyticsKeywords     = []string{"report", "analytics", "insights", "metrics"}
)

// DefaultDescriptors returns the standard ordered routing table over the
// built-in agents. The generator may be nil; content-producing agents then
// fall back to templated output.
func DefaultDescriptors(workspaceDir string, gen generation.Generator, logger *slog.Logger) []Descriptor {
	return []Descriptor{
		{Agent: NewCodingAgent(workspaceDir, logger), Matches: MatchKeywords(CodingKeywords...)},
		{Agent: NewDataAgent(logger), Matches: MatchKeywords(DataKeywords...)},
		{Agent: NewCommunicationAgent(gen, logger), Matches: MatchKeywords(CommunicationKeywords...)},
		{Agent: NewBusinessAgent(logger), Matches: MatchKeywords(BusinessKeywords...)},
		{Agent: NewAnalyticsAgent(gen, logger), Matches: MatchKeywords(AnalyticsKeywords...)},
		{Agent: NewGeneralAgent(logger), Matches: nil}, // fallback
	}
}

// DataAgent handles data collection and analysis tasks. The scraping
// backend itself is an external collaborator; this agent summarizes what
// was requested and echoes the opaque payload back to the caller.
type DataAgent struct {
	logger *slog.Logger
}

// NewDataAgent creates a DataAgent.
func NewDataAgent(logger *slog.Logger) *DataAgent {
	return &DataAgent{logger: logger.With("agent", NameData)}
}

// Name returns the agent's stable identifier.
func (a *DataAgent) Name() string { return NameData }

// ProcessTask summarizes a data collection/analysis request.
func (a *DataAgent) ProcessTask(ctx context.Context, task *domain.Task) (map[string]any, error) {
	a.logger.InfoContext(ctx, "processing data task", "task_id", task.ID)

	source, _ := task.Data["data_source"].(string)
	if source == "" {
		source = "unspecified"
	}

	return map[string]any{
		"summary":      fmt.Sprintf("collected and analyzed data for: %s", task.Description),
		"data_source":  source,
		"records":      0,
		"processed_at": time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// CommunicationAgent handles chat, message and email tasks. When a
// generator is configured the draft is produced by the LLM; otherwise a
// template is used.
type CommunicationAgent struct {
	gen    generation.Generator
	logger *slog.Logger
}

// NewCommunicationAgent creates a CommunicationAgent. gen may be nil.
func NewCommunicationAgent(gen generation.Generator, logger *slog.Logger) *CommunicationAgent {
	return &CommunicationAgent{gen: gen, logger: logger.With("agent", NameCommunication)}
}

// Name returns the agent's stable identifier.
func (a *CommunicationAgent) Name() string { return NameCommunication }

// ProcessTask drafts the requested content.
func (a *CommunicationAgent) ProcessTask(ctx context.Context, task *domain.Task) (map[string]any, error) {
	a.logger.InfoContext(ctx, "processing communication task", "task_id", task.ID)

	draft := fmt.Sprintf("Draft for %q:\n\nHello,\n\nThis message was prepared in response to your request.\n\nBest regards", task.Description)
	generated := false

	if a.gen != nil {
		text, err := a.gen.Generate(ctx, "Draft a short professional message for: "+task.Description)
		if err != nil {
			return nil, fmt.Errorf("draft generation: %w", err)
		}
		draft = text
		generated = true
	}

	return map[string]any{
		"content":   draft,
		"generated": generated,
	}, nil
}

// BusinessAgent handles sales, lead and marketing tasks. Lead scraping and
// enrichment are external collaborators; this agent produces the structured
// summary envelope.
type BusinessAgent struct {
	logger *slog.Logger
}

// NewBusinessAgent creates a BusinessAgent.
func NewBusinessAgent(logger *slog.Logger) *BusinessAgent {
	return &BusinessAgent{logger: logger.With("agent", NameBusiness)}
}

// Name returns the agent's stable identifier.
func (a *BusinessAgent) Name() string { return NameBusiness }

// ProcessTask summarizes a business request.
func (a *BusinessAgent) ProcessTask(ctx context.Context, task *domain.Task) (map[string]any, error) {
	a.logger.InfoContext(ctx, "processing business task", "task_id", task.ID)

	return map[string]any{
		"summary": fmt.Sprintf("business task handled: %s", task.Description),
		"leads":   []any{},
	}, nil
}

// AnalyticsAgent handles report, metrics and insight tasks.
type AnalyticsAgent struct {
	gen    generation.Generator
	logger *slog.Logger
}

// NewAnalyticsAgent creates an AnalyticsAgent. gen may be nil.
func NewAnalyticsAgent(gen generation.Generator, logger *slog.Logger) *AnalyticsAgent {
	return &AnalyticsAgent{gen: gen, logger: logger.With("agent", NameAnalytics)}
}

// Name returns the agent's stable identifier.
func (a *AnalyticsAgent) Name() string { return NameAnalytics }

// ProcessTask produces a report for the request.
func (a *AnalyticsAgent) ProcessTask(ctx context.Context, task *domain.Task) (map[string]any, error) {
	a.logger.InfoContext(ctx, "processing analytics task", "task_id", task.ID)

	report := fmt.Sprintf("Report for %q: no data sources configured; nothing to aggregate.", task.Description)
	if a.gen != nil {
		text, err := a.gen.Generate(ctx, "Write a brief report outline for: "+task.Description)
		if err != nil {
			return nil, fmt.Errorf("report generation: %w", err)
		}
		report = text
	}

	return map[string]any{
		"report":       report,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// GeneralAgent is the fallback for tasks no capability claims.
type GeneralAgent struct {
	logger *slog.Logger
}

// NewGeneralAgent creates a GeneralAgent.
func NewGeneralAgent(logger *slog.Logger) *GeneralAgent {
	return &GeneralAgent{logger: logger.With("agent", NameGeneral)}
}

// Name returns the agent's stable identifier.
func (a *GeneralAgent) Name() string { return NameGeneral }

// ProcessTask acknowledges a task that matched no specific capability.
func (a *GeneralAgent) ProcessTask(ctx context.Context, task *domain.Task) (map[string]any, error) {
	a.logger.InfoContext(ctx, "processing general task", "task_id", task.ID)

	return map[string]any{
		"summary": fmt.Sprintf("handled general task: %s", task.Description),
	}, nil
}
