package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatprobe/chatprobe/internal/sim"
)

// fakeCompleter serves both the simulated-user prompts and the judge prompts,
// dispatching on recognizable prompt text.
type fakeCompleter struct {
	initialMsg  string
	initialErr  error
	responses   []string
	responseIdx int
	goalVerdict string
}

func (c *fakeCompleter) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	switch {
	case strings.Contains(user, "Generate the first message"):
		return c.initialMsg, c.initialErr
	case strings.Contains(user, "generate your next message"):
		if c.responseIdx < len(c.responses) {
			out := c.responses[c.responseIdx]
			c.responseIdx++
			return out, nil
		}
		return "MESSAGE: \nCONTINUE: false\nSATISFACTION: 0.5\nREASON: done", nil
	case strings.Contains(user, `Respond with only "TRUE"`):
		return c.goalVerdict, nil
	default:
		return "REASONING: fine\nSCORE: 2", nil
	}
}

func runConfig(endpoint string, maxTurns int) sim.Config {
	return sim.Config{
		Persona: sim.Persona{ID: "average_user", Name: "Average User", Patience: 0.5, FrustrationTolerance: 0.5},
		Goal: sim.Goal{
			ID: "learn_basic_concept", Description: "Learn how memories are stored",
			SuccessCriteria: []string{"gets an explanation"},
			ExpectedTurns:   8,
			Domain:          sim.DomainEducational,
			Complexity:      sim.ComplexitySimple,
		},
		Model:        "gpt-4o",
		MaxTurns:     maxTurns,
		APIEndpoint:  endpoint,
		SimulationID: "test-sim",
	}
}

func TestRun_EndToEnd(t *testing.T) {
	color.NoColor = true

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0:\"You can say keep in mind.\"\n"))
	}))
	defer server.Close()

	completer := &fakeCompleter{
		initialMsg: "How do I save a note?",
		responses: []string{
			"MESSAGE: \nCONTINUE: false\nSATISFACTION: 0.9\nREASON: got the answer",
		},
		goalVerdict: "TRUE",
	}

	var out bytes.Buffer
	resultsDir := t.TempDir()
	r := NewRunner(runConfig(server.URL, 5), completer, Options{ResultsDir: resultsDir, Out: &out})

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Metrics.GoalAchieved)
	assert.Equal(t, 1, result.Metrics.TotalTurns)
	assert.InDelta(t, 2.0/3.0, result.Metrics.ClarityScore, 1e-9)
	assert.Empty(t, result.Errors)
	assert.GreaterOrEqual(t, result.Duration, 0.0)
	assert.InDelta(t, 0.9, result.Conversation.UserSatisfaction, 1e-9)

	require.GreaterOrEqual(t, len(result.Conversation.Messages), 2)
	assert.Equal(t, sim.RoleUser, result.Conversation.Messages[0].Role)
	assert.Equal(t, "How do I save a note?", result.Conversation.Messages[0].Content)
	assert.Equal(t, sim.RoleAssistant, result.Conversation.Messages[1].Role)
	assert.Equal(t, "You can say keep in mind.", result.Conversation.Messages[1].Content)

	text := out.String()
	assert.Contains(t, text, "Starting Simulation")
	assert.Contains(t, text, "Persona: Average User")
	assert.Contains(t, text, "USER: How do I save a note?")
	assert.Contains(t, text, "ASSISTANT: You can say keep in mind.")
	assert.Contains(t, text, "User ended conversation")
	assert.Contains(t, text, "Results saved to:")
	assert.Contains(t, text, "=== EVALUATION REPORT ===")
	assert.NotContains(t, text, "Errors encountered")

	// One result document was persisted and round-trips.
	matches, err := filepath.Glob(filepath.Join(resultsDir, "simulation-test-sim-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	var saved sim.Result
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "test-sim", saved.Config.SimulationID)
	assert.True(t, saved.Metrics.GoalAchieved)
}

func TestRun_TransportErrorEndsConversation(t *testing.T) {
	color.NoColor = true

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("backend down"))
	}))
	defer server.Close()

	completer := &fakeCompleter{initialMsg: "hello?", goalVerdict: "FALSE"}

	var out bytes.Buffer
	r := NewRunner(runConfig(server.URL, 5), completer, Options{ResultsDir: t.TempDir(), Out: &out})

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "status 500")
	assert.False(t, result.Metrics.GoalAchieved)
	assert.Greater(t, result.Metrics.ErrorRate, 0.0)

	// Only the opening user message made it into the transcript.
	require.Len(t, result.Conversation.Messages, 1)
	assert.Equal(t, sim.RoleUser, result.Conversation.Messages[0].Role)

	text := out.String()
	assert.Contains(t, text, "ERROR:")
	assert.Contains(t, text, "Errors encountered")
}

func TestRun_InitialMessageFailureStillEvaluates(t *testing.T) {
	color.NoColor = true

	completer := &fakeCompleter{
		initialErr:  fmt.Errorf("provider unavailable"),
		goalVerdict: "FALSE",
	}

	var out bytes.Buffer
	r := NewRunner(runConfig("http://127.0.0.1:1/unused", 5), completer, Options{ResultsDir: t.TempDir(), Out: &out})

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to generate initial message")
	assert.Empty(t, result.Conversation.Messages)
	assert.Contains(t, out.String(), "Simulation error:")
}

func TestRun_MaxTurnsReached(t *testing.T) {
	color.NoColor = true

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0:\"Could you clarify?\"\n"))
	}))
	defer server.Close()

	completer := &fakeCompleter{
		initialMsg: "I need help",
		responses: []string{
			"MESSAGE: Still not clear\nCONTINUE: true\nSATISFACTION: 0.5\nREASON: vague",
			"MESSAGE: Try again\nCONTINUE: true\nSATISFACTION: 0.5\nREASON: vague",
		},
		goalVerdict: "FALSE",
	}

	var out bytes.Buffer
	r := NewRunner(runConfig(server.URL, 2), completer, Options{ResultsDir: t.TempDir(), Out: &out})

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Conversation.CurrentTurn)
	assert.Contains(t, out.String(), "Maximum turns reached")
	assert.Empty(t, result.Errors)
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner(runConfig("http://example.invalid", 1), &fakeCompleter{}, Options{})
	assert.Equal(t, DefaultResultsDir, r.resultsDir)
	assert.Equal(t, os.Stdout, r.out)
}
