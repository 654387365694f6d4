package agent

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldai/world-api/internal/domain"
	"github.com/worldai/world-api/internal/generation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustTask(t *testing.T, taskType, description string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(taskType, description, nil, 0)
	require.NoError(t, err)
	return task
}

func TestRouter_Select(t *testing.T) {
	t.Parallel()

	router := NewRouter(DefaultDescriptors(t.TempDir(), nil, testLogger())...)

	cases := []struct {
		description string
		taskType    string
		want        string
	}{
		{"create project demo", "", NameCoding},
		{"BUILD the new tool", "", NameCoding},
		{"scrape the product listings", "", NameData},
		{"analyze data from the warehouse", "", NameData},
		{"send an email to the team", "", NameCommunication},
		{"find new sales leads", "", NameBusiness},
		{"weekly metrics report", "", NameAnalytics},
		{"do something unclassifiable", "", NameGeneral},
		{"unclassifiable description", "scrape_data", NameData},
	}

	for _, c := range cases {
		agent, err := router.Select(mustTask(t, c.taskType, c.description))
		require.NoError(t, err, "description %q", c.description)
		assert.Equal(t, c.want, agent.Name(), "description %q", c.description)
	}
}

func TestRouter_FirstMatchWins(t *testing.T) {
	t.Parallel()

	// "create a sales report" contains coding, business and analytics
	// keywords; registration order decides.
	router := NewRouter(DefaultDescriptors(t.TempDir(), nil, testLogger())...)

	agent, err := router.Select(mustTask(t, "", "create a sales report"))
	require.NoError(t, err)
	assert.Equal(t, NameCoding, agent.Name())
}

func TestRouter_NoAgentAvailable(t *testing.T) {
	t.Parallel()

	// A router constructed with zero descriptors is the defined reachable
	// path to ErrNoAgentAvailable.
	router := NewRouter()

	_, err := router.Select(mustTask(t, "", "anything at all"))
	assert.ErrorIs(t, err, domain.ErrNoAgentAvailable)
}

func TestRouter_Names(t *testing.T) {
	t.Parallel()

	router := NewRouter(DefaultDescriptors(t.TempDir(), nil, testLogger())...)
	assert.Equal(t,
		[]string{NameCoding, NameData, NameCommunication, NameBusiness, NameAnalytics, NameGeneral},
		router.Names())
}

func TestMatchKeywords(t *testing.T) {
	t.Parallel()

	match := MatchKeywords("email", "chat")

	assert.True(t, match(mustTask(t, "", "Send an Email please")))
	assert.True(t, match(mustTask(t, "chat_message", "unrelated words")))
	assert.False(t, match(mustTask(t, "", "weekly numbers")))
}

func TestMatchKeywords_WholeWordsOnly(t *testing.T) {
	t.Parallel()

	// Keywords match whole tokens, never substrings of longer words.
	assert.False(t, MatchKeywords("script")(mustTask(t, "", "unclassifiable description")))
	assert.False(t, MatchKeywords("data")(mustTask(t, "", "update the records")))
	assert.False(t, MatchKeywords("lead")(mustTask(t, "", "ask the team leader")))

	// The same keywords still match when they appear as their own word,
	// including inside underscore-separated type tags.
	assert.True(t, MatchKeywords("script")(mustTask(t, "", "run the backup script")))
	assert.True(t, MatchKeywords("data")(mustTask(t, "scrape_data", "unclassifiable description")))
	assert.True(t, MatchKeywords("lead")(mustTask(t, "", "qualify this lead")))
}

func TestRouter_TypeBeatsUnrelatedDescription(t *testing.T) {
	t.Parallel()

	// A coding-flavored substring in the description must not shadow a
	// routing decision carried by the task type.
	router := NewRouter(DefaultDescriptors(t.TempDir(), nil, testLogger())...)

	agent, err := router.Select(mustTask(t, "scrape_data", "unclassifiable description"))
	require.NoError(t, err)
	assert.Equal(t, NameData, agent.Name())
}

func TestGeneratorFallbacks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("communication without generator", func(t *testing.T) {
		t.Parallel()
		a := NewCommunicationAgent(nil, testLogger())
		out, err := a.ProcessTask(ctx, mustTask(t, "", "email the onboarding guide"))
		require.NoError(t, err)
		assert.NotEmpty(t, out["content"])
		assert.Equal(t, false, out["generated"])
	})

	t.Run("analytics without generator", func(t *testing.T) {
		t.Parallel()
		a := NewAnalyticsAgent(nil, testLogger())
		out, err := a.ProcessTask(ctx, mustTask(t, "", "monthly report"))
		require.NoError(t, err)
		assert.NotEmpty(t, out["report"])
	})

	t.Run("communication with generator", func(t *testing.T) {
		t.Parallel()
		gen := generation.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
			return "drafted: " + prompt, nil
		})
		a := NewCommunicationAgent(gen, testLogger())
		out, err := a.ProcessTask(ctx, mustTask(t, "", "email the onboarding guide"))
		require.NoError(t, err)
		assert.Contains(t, out["content"], "drafted:")
		assert.Equal(t, true, out["generated"])
	})
}
