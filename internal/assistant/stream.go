package assistant

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
)

// NoResponsePlaceholder is returned when nothing usable could be decoded from
// a response body. The decoder never returns an empty success result.
const NoResponsePlaceholder = "No response received"

// RemoteError is an explicit in-band error surfaced by the assistant service
// inside its event stream. Unlike decode failures it terminates the turn.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

type outcomeKind int

const (
	outcomeSkip outcomeKind = iota
	outcomeAppend
	outcomeError
)

type outcome struct {
	kind outcomeKind
	text string
}

// lineMatcher inspects one body line. The second return value is false when
// the matcher does not recognize the line at all; matchers run in priority
// order and the first match wins.
type lineMatcher func(line string) (outcome, bool)

var matchers = []lineMatcher{
	matchFramedNumeric,
	matchEvent,
	matchPlainLine,
}

// Decode parses a chunked response body of unknown or mixed framing into the
// accumulated assistant reply. Lines are consumed in order; supported
// framings are the framed-numeric prefix format ("0:payload"), server-push
// events ("data: payload") and bare text/JSON lines. An in-band error event
// aborts decoding and discards any partial text.
func Decode(body string) (string, error) {
	var sb strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, match := range matchers {
			o, ok := match(line)
			if !ok {
				continue
			}
			if o.kind == outcomeError {
				return "", &RemoteError{Message: o.text}
			}
			if o.kind == outcomeAppend {
				sb.WriteString(o.text)
			}
			break
		}
	}

	text := sb.String()
	if scanner.Err() != nil {
		// Accumulation failed mid-stream; fall back to the raw body.
		text = body
	}
	if strings.TrimSpace(text) == "" {
		text = body
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = NoResponsePlaceholder
	}
	return text, nil
}

// matchFramedNumeric handles the "0:" framed format where the payload is a
// quoted JSON string, a bare JSON scalar, or raw text.
func matchFramedNumeric(line string) (outcome, bool) {
	if !strings.HasPrefix(line, "0:") {
		return outcome{}, false
	}
	content := strings.TrimSpace(line[2:])
	// A lone quote (or empty pair) after prefix-stripping carries no text.
	if content == "" || content == `"` || content == `""` {
		return outcome{kind: outcomeSkip}, true
	}

	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		if s, ok := parsed.(string); ok {
			return outcome{kind: outcomeAppend, text: s}, true
		}
		return outcome{kind: outcomeAppend, text: stringify(parsed)}, true
	}

	if len(content) >= 2 && strings.HasPrefix(content, `"`) && strings.HasSuffix(content, `"`) {
		content = content[1 : len(content)-1]
	}
	return outcome{kind: outcomeAppend, text: content}, true
}

// matchEvent handles server-push "data: " events, including the AI SDK
// message shapes, the OpenAI delta fallback and the [DONE] terminator.
func matchEvent(line string) (outcome, bool) {
	if !strings.HasPrefix(line, "data: ") {
		return outcome{}, false
	}
	data := strings.TrimSpace(line[6:])
	if data == "" || data == "[DONE]" {
		return outcome{kind: outcomeSkip}, true
	}

	var event struct {
		Type      string `json:"type"`
		ErrorText string `json:"errorText"`
		Delta     string `json:"delta"`
		Text      string `json:"text"`
		Choices   []struct {
			Delta struct {
				Content *string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		// Forward-compatibility tolerance: non-JSON event payloads are
		// treated as literal text unless they look like a broken object.
		if !strings.HasPrefix(data, "{") {
			return outcome{kind: outcomeAppend, text: data}, true
		}
		return outcome{kind: outcomeSkip}, true
	}

	switch event.Type {
	case "error":
		msg := event.ErrorText
		if msg == "" {
			msg = "Unknown error"
		}
		return outcome{kind: outcomeError, text: msg}, true
	case "text-delta":
		return outcome{kind: outcomeAppend, text: event.Delta}, true
	case "text":
		return outcome{kind: outcomeAppend, text: event.Text}, true
	}

	if len(event.Choices) > 0 && event.Choices[0].Delta.Content != nil {
		return outcome{kind: outcomeAppend, text: *event.Choices[0].Delta.Content}, true
	}
	return outcome{kind: outcomeSkip}, true
}

// matchPlainLine handles bare lines: JSON if parseable, literal text
// otherwise. Comment lines (":...") are dropped.
func matchPlainLine(line string) (outcome, bool) {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ":") {
		return outcome{kind: outcomeSkip}, true
	}

	var parsed any
	if err := json.Unmarshal([]byte(line), &parsed); err == nil {
		if s, ok := parsed.(string); ok {
			return outcome{kind: outcomeAppend, text: s}, true
		}
		return outcome{kind: outcomeAppend, text: stringify(parsed)}, true
	}
	return outcome{kind: outcomeAppend, text: line}, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}
