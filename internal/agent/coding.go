package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/worldai/world-api/internal/domain"
)

// CodingAgent handles project creation and code generation tasks. All file
// writes are confined to the sandboxed workspace base path injected at
// construction.
type CodingAgent struct {
	workspaceDir string
	logger       *slog.Logger
}

// NewCodingAgent creates a CodingAgent writing under workspaceDir.
func NewCodingAgent(workspaceDir string, logger *slog.Logger) *CodingAgent {
	return &CodingAgent{
		workspaceDir: workspaceDir,
		logger:       logger.With("agent", NameCoding),
	}
}

// Name returns the agent's stable identifier.
func (a *CodingAgent) Name() string { return NameCoding }

// ProcessTask executes a coding task. "create project" requests scaffold a
// project directory; everything else returns a structured acknowledgement.
func (a *CodingAgent) ProcessTask(ctx context.Context, task *domain.Task) (map[string]any, error) {
	a.logger.InfoContext(ctx, "processing coding task", "task_id", task.ID)

	description := strings.ToLower(task.Description)
	if task.Type == "create_project" || strings.Contains(description, "create project") {
		return a.createProject(task)
	}

	return map[string]any{
		"summary": fmt.Sprintf("coding task handled: %s", task.Description),
	}, nil
}

// createProject scaffolds a new project directory under the workspace.
func (a *CodingAgent) createProject(task *domain.Task) (map[string]any, error) {
	name, _ := task.Data["project_name"].(string)
	if name == "" {
		name = projectNameFromDescription(task.Description)
	}

	projectType, _ := task.Data["project_type"].(string)
	if projectType == "" {
		projectType = detectProjectType(task.Description)
	}

	projectDir := filepath.Join(a.workspaceDir, "projects", name)

	// Refuse names that would escape the sandbox.
	cleaned, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}
	base, err := filepath.Abs(filepath.Join(a.workspaceDir, "projects"))
	if err != nil {
		return nil, fmt.Errorf("resolve workspace path: %w", err)
	}
	if !strings.HasPrefix(cleaned, base+string(filepath.Separator)) {
		return nil, fmt.Errorf("project name %q escapes the workspace", name)
	}

	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	files, err := scaffoldFiles(projectDir, name, projectType)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"project_name":  name,
		"project_type":  projectType,
		"project_path":  projectDir,
		"files_created": files,
	}, nil
}

// scaffoldFiles writes the starter files for the given project type and
// returns their relative names.
func scaffoldFiles(dir, name, projectType string) ([]string, error) {
	var files map[string]string
	switch projectType {
	case "web":
		files = map[string]string{
			"index.html": fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head><title>%s</title></head>\n<body><h1>%s</h1></body>\n</html>\n", name, name),
			"style.css":  "body { font-family: sans-serif; }\n",
		}
	case "api":
		files = map[string]string{
			"main.py":          "from fastapi import FastAPI\n\napp = FastAPI()\n\n\n@app.get(\"/\")\ndef root():\n    return {\"status\": \"ok\"}\n",
			"requirements.txt": "fastapi\nuvicorn\n",
		}
	default: // python
		files = map[string]string{
			"main.py":   fmt.Sprintf("def main():\n    print(\"%s\")\n\n\nif __name__ == \"__main__\":\n    main()\n", name),
			"README.md": fmt.Sprintf("# %s\n", name),
		}
	}

	names := make([]string, 0, len(files))
	for fname, content := range files {
		if err := os.WriteFile(filepath.Join(dir, fname), []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", fname, err)
		}
		names = append(names, fname)
	}
	return names, nil
}

// detectProjectType infers the project type from the description.
func detectProjectType(description string) string {
	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "web") || strings.Contains(lower, "html"):
		return "web"
	case strings.Contains(lower, "api"):
		return "api"
	default:
		return "python"
	}
}

// projectNameFromDescription extracts the word following "project", or
// falls back to a generic name.
func projectNameFromDescription(description string) string {
	words := strings.Fields(strings.ToLower(description))
	for i, w := range words {
		if w == "project" && i+1 < len(words) {
			return words[i+1]
		}
	}
	return "new_project"
}
