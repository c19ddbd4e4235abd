package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatprobe/chatprobe/internal/sim"
)

func TestClient_Send(t *testing.T) {
	t.Run("builds UIMessage request body with history", func(t *testing.T) {
		var captured sendRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "*/*", r.Header.Get("Accept"))
			assert.Equal(t, "AI-Simulation-Client/1.0", r.Header.Get("User-Agent"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &captured))

			w.WriteHeader(http.StatusOK)
			w.Write([]byte("0:\"ok\"\n"))
		}))
		defer server.Close()

		client := NewClient(Config{Endpoint: server.URL})
		history := []sim.Message{
			{Role: sim.RoleUser, Content: "first question"},
			{Role: sim.RoleAssistant, Content: "first answer"},
		}

		reply, elapsed, err := client.Send(context.Background(), "follow-up", history)
		require.NoError(t, err)
		assert.Equal(t, "ok", reply)
		assert.GreaterOrEqual(t, elapsed, 0.0)

		require.Len(t, captured.Messages, 3)
		assert.Equal(t, "msg-0", captured.Messages[0].ID)
		assert.Equal(t, "user", captured.Messages[0].Role)
		assert.Equal(t, "first question", captured.Messages[0].Parts[0].Text)
		assert.Equal(t, "text", captured.Messages[0].Parts[0].Type)
		assert.Equal(t, "msg-1", captured.Messages[1].ID)
		assert.Equal(t, "assistant", captured.Messages[1].Role)
		assert.Equal(t, "msg-2", captured.Messages[2].ID)
		assert.Equal(t, "user", captured.Messages[2].Role)
		assert.Equal(t, "follow-up", captured.Messages[2].Parts[0].Text)
	})

	t.Run("custom headers override defaults", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "token abc", r.Header.Get("Authorization"))
			assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
			w.Write([]byte("0:\"ok\"\n"))
		}))
		defer server.Close()

		client := NewClient(Config{
			Endpoint: server.URL,
			Headers: map[string]string{
				"Authorization": "token abc",
				"User-Agent":    "custom-agent",
			},
		})

		_, _, err := client.Send(context.Background(), "hi", nil)
		assert.NoError(t, err)
	})

	t.Run("non-success status becomes error with status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		client := NewClient(Config{Endpoint: server.URL})
		reply, elapsed, err := client.Send(context.Background(), "hi", nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
		assert.Contains(t, err.Error(), "upstream exploded")
		assert.Empty(t, reply)
		assert.GreaterOrEqual(t, elapsed, 0.0)
	})

	t.Run("timeout reported as Request timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(Config{
			Endpoint: server.URL,
			Timeout:  20 * time.Millisecond,
		})

		reply, elapsed, err := client.Send(context.Background(), "hi", nil)
		require.Error(t, err)
		assert.Equal(t, "Request timeout", err.Error())
		assert.Empty(t, reply)
		assert.Greater(t, elapsed, 0.0)
	})

	t.Run("in-band stream error becomes error value", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`data: {"type":"error","errorText":"model overloaded"}`))
		}))
		defer server.Close()

		client := NewClient(Config{Endpoint: server.URL})
		reply, _, err := client.Send(context.Background(), "hi", nil)

		require.Error(t, err)
		assert.Equal(t, "model overloaded", err.Error())
		assert.Empty(t, reply)
	})

	t.Run("connection failure returns error not panic", func(t *testing.T) {
		client := NewClient(Config{Endpoint: "http://127.0.0.1:1/unreachable"})
		_, elapsed, err := client.Send(context.Background(), "hi", nil)

		assert.Error(t, err)
		assert.GreaterOrEqual(t, elapsed, 0.0)
	})
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient(Config{Endpoint: "http://example.invalid"})
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}
