package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldai/world-api/internal/domain"
	"github.com/worldai/world-api/internal/orchestrator"
)

func commandRouter(s *orchestrator.Scheduler) http.Handler {
	h := NewCommandHandler(s, testLogger())
	r := chi.NewRouter()
	r.Post("/api/commands", h.ExecuteCommand)
	return r
}

func TestCommandHandler_Execute(t *testing.T) {
	t.Parallel()

	s := testScheduler(orchestrator.DefaultConfig(), &echoAgent{name: "general"})
	router := commandRouter(s)

	body := `{"description":"run this now"}`
	req := httptest.NewRequest(http.MethodPost, "/api/commands", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.TaskStatusCompleted, resp.Status)
	assert.Equal(t, "general", resp.AssignedAgent)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "run this now", resp.Result.Output["echo"])
}

func TestCommandHandler_Timeout(t *testing.T) {
	t.Parallel()

	cfg := orchestrator.DefaultConfig()
	cfg.ExecuteTimeout = 20 * time.Millisecond
	slow := &echoAgent{name: "general", fn: func(ctx context.Context, _ *domain.Task) (map[string]any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	s := testScheduler(cfg, slow)
	router := commandRouter(s)

	req := httptest.NewRequest(http.MethodPost, "/api/commands", strings.NewReader(`{"description":"hang"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestCommandHandler_Validation(t *testing.T) {
	t.Parallel()

	s := testScheduler(orchestrator.DefaultConfig(), &echoAgent{name: "general"})
	router := commandRouter(s)

	req := httptest.NewRequest(http.MethodPost, "/api/commands", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
