package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chatprobe/chatprobe/internal/sim"
)

// DefaultTimeout bounds one assistant round trip including stream reading.
const DefaultTimeout = 30 * time.Second

// Config configures the assistant client.
type Config struct {
	Endpoint string
	Headers  map[string]string // merged over the default headers
	Timeout  time.Duration
}

// Client talks to the target assistant endpoint, one POST per turn.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates an assistant client for the given endpoint.
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type messagePart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type wireMessage struct {
	ID    string        `json:"id"`
	Role  string        `json:"role"`
	Parts []messagePart `json:"parts"`
}

type sendRequest struct {
	Messages []wireMessage `json:"messages"`
}

// Send posts the new user message plus the full prior history and decodes the
// streamed reply. The elapsed wall-clock time in milliseconds is returned for
// telemetry regardless of outcome. Transport and in-band failures come back
// as error values; none escape as panics.
func (c *Client) Send(ctx context.Context, message string, history []sim.Message) (string, float64, error) {
	start := time.Now()
	elapsed := func() float64 {
		return float64(time.Since(start)) / float64(time.Millisecond)
	}

	messages := make([]wireMessage, 0, len(history)+1)
	for i, m := range history {
		messages = append(messages, wireMessage{
			ID:    fmt.Sprintf("msg-%d", i),
			Role:  string(m.Role),
			Parts: []messagePart{{Type: "text", Text: m.Content}},
		})
	}
	messages = append(messages, wireMessage{
		ID:    fmt.Sprintf("msg-%d", len(history)),
		Role:  string(sim.RoleUser),
		Parts: []messagePart{{Type: "text", Text: message}},
	})

	body, err := json.Marshal(sendRequest{Messages: messages})
	if err != nil {
		return "", elapsed(), fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", elapsed(), fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", "AI-Simulation-Client/1.0")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	log.Debug().
		Str("endpoint", c.config.Endpoint).
		Int("history", len(history)).
		Msg("Sending message to assistant")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", elapsed(), errors.New("Request timeout")
		}
		return "", elapsed(), err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", elapsed(), errors.New("Request timeout")
		}
		return "", elapsed(), fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", elapsed(), fmt.Errorf("API responded with status %d: %s", resp.StatusCode, string(raw))
	}

	text, err := Decode(string(raw))
	if err != nil {
		return "", elapsed(), err
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Float64("elapsed_ms", elapsed()).
		Int("reply_len", len(text)).
		Msg("Assistant reply decoded")

	return text, elapsed(), nil
}

func isTimeout(err error) bool {
	if os.IsTimeout(err) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
