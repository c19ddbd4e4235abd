package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_FramedNumericFormat(t *testing.T) {
	t.Run("concatenates quoted JSON string payloads", func(t *testing.T) {
		body := "0:\"Hello\"\n0:\" world\"\n"
		text, err := Decode(body)
		assert.NoError(t, err)
		assert.Equal(t, "Hello world", text)
	})

	t.Run("decodes bare JSON scalars", func(t *testing.T) {
		text, err := Decode("0:42\n")
		assert.NoError(t, err)
		assert.Equal(t, "42", text)
	})

	t.Run("appends raw text when payload is not JSON", func(t *testing.T) {
		text, err := Decode("0:plain text chunk\n")
		assert.NoError(t, err)
		assert.Equal(t, "plain text chunk", text)
	})

	t.Run("strips one pair of surrounding quotes from unparseable payload", func(t *testing.T) {
		// An unterminated escape makes this invalid JSON but still quoted.
		text, err := Decode("0:\"broken \\x escape\"\n")
		assert.NoError(t, err)
		assert.Equal(t, "broken \\x escape", text)
	})

	t.Run("skips lone quote payloads", func(t *testing.T) {
		body := "0:\"\n0:\"\"\n0:\"ok\"\n"
		text, err := Decode(body)
		assert.NoError(t, err)
		assert.Equal(t, "ok", text)
	})
}

func TestDecode_EventFormat(t *testing.T) {
	t.Run("text-delta events accumulate until DONE", func(t *testing.T) {
		body := "data: {\"type\":\"text-delta\",\"delta\":\"Hi\"}\n\ndata: [DONE]\n"
		text, err := Decode(body)
		assert.NoError(t, err)
		assert.Equal(t, "Hi", text)
	})

	t.Run("whole-text events append their content", func(t *testing.T) {
		body := "data: {\"type\":\"text\",\"text\":\"full reply\"}\n"
		text, err := Decode(body)
		assert.NoError(t, err)
		assert.Equal(t, "full reply", text)
	})

	t.Run("error event aborts and discards partial text", func(t *testing.T) {
		body := strings.Join([]string{
			`data: {"type":"text-delta","delta":"partial"}`,
			`data: {"type":"error","errorText":"boom"}`,
			`data: {"type":"text-delta","delta":"never seen"}`,
		}, "\n")
		text, err := Decode(body)
		require.Error(t, err)
		assert.Equal(t, "boom", err.Error())
		assert.Empty(t, text)

		var remote *RemoteError
		assert.ErrorAs(t, err, &remote)
	})

	t.Run("error event without errorText uses default message", func(t *testing.T) {
		_, err := Decode(`data: {"type":"error"}`)
		require.Error(t, err)
		assert.Equal(t, "Unknown error", err.Error())
	})

	t.Run("falls back to OpenAI delta format", func(t *testing.T) {
		body := strings.Join([]string{
			`data: {"choices":[{"delta":{"content":"This"},"finish_reason":null}]}`,
			`data: {"choices":[{"delta":{"content":" works"},"finish_reason":null}]}`,
			`data: {"choices":[{"delta":{},"finish_reason":"stop"}]}`,
			`data: [DONE]`,
		}, "\n")
		text, err := Decode(body)
		assert.NoError(t, err)
		assert.Equal(t, "This works", text)
	})

	t.Run("non-JSON payload appended as literal text", func(t *testing.T) {
		text, err := Decode("data: just some words\n")
		assert.NoError(t, err)
		assert.Equal(t, "just some words", text)
	})

	t.Run("broken JSON object payload is skipped", func(t *testing.T) {
		body := "data: {\"type\":\"text-del\ndata: {\"type\":\"text\",\"text\":\"kept\"}\n"
		text, err := Decode(body)
		assert.NoError(t, err)
		assert.Equal(t, "kept", text)
	})
}

func TestDecode_PlainLines(t *testing.T) {
	t.Run("JSON string line decoded", func(t *testing.T) {
		text, err := Decode("\"quoted reply\"\n")
		assert.NoError(t, err)
		assert.Equal(t, "quoted reply", text)
	})

	t.Run("non-JSON line appended verbatim", func(t *testing.T) {
		text, err := Decode("hello there\n")
		assert.NoError(t, err)
		assert.Equal(t, "hello there", text)
	})

	t.Run("comment lines are dropped", func(t *testing.T) {
		text, err := Decode(": keep-alive\nactual content\n")
		assert.NoError(t, err)
		assert.Equal(t, "actual content", text)
	})

	t.Run("empty lines are ignored", func(t *testing.T) {
		text, err := Decode("\n\nfirst\n\nsecond\n")
		assert.NoError(t, err)
		assert.Equal(t, "firstsecond", text)
	})
}

func TestDecode_Fallbacks(t *testing.T) {
	t.Run("empty accumulation falls back to raw body", func(t *testing.T) {
		// Only skipped content; the raw body itself becomes the reply.
		body := "data: [DONE]"
		text, err := Decode(body)
		assert.NoError(t, err)
		assert.Equal(t, "data: [DONE]", text)
	})

	t.Run("empty body yields the placeholder", func(t *testing.T) {
		text, err := Decode("")
		assert.NoError(t, err)
		assert.Equal(t, NoResponsePlaceholder, text)
	})

	t.Run("whitespace-only body yields the placeholder", func(t *testing.T) {
		text, err := Decode("   \n  \n")
		assert.NoError(t, err)
		assert.Equal(t, NoResponsePlaceholder, text)
	})

	t.Run("output is trimmed", func(t *testing.T) {
		text, err := Decode("0:\"  padded  \"\n")
		assert.NoError(t, err)
		assert.Equal(t, "padded", text)
	})
}

func TestDecode_MixedFraming(t *testing.T) {
	body := strings.Join([]string{
		`0:"Hello"`,
		`data: {"type":"text-delta","delta":", "}`,
		`world`,
		`data: [DONE]`,
	}, "\n")
	text, err := Decode(body)
	assert.NoError(t, err)
	assert.Equal(t, "Hello, world", text)
}
