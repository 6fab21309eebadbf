package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
// Returns the buffer and a cleanup function to restore original output.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false // disable colors for easier assertions
	mu.Unlock()

	reconfigure()

	cleanup := func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		reconfigure()
	}

	return buf, cleanup
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		assert.Contains(t, out, "debug message")
		assert.Contains(t, out, "info message")
		assert.Contains(t, out, "warn message")
		assert.Contains(t, out, "error message")
	})

	t.Run("WarnLevelSuppressesDebugAndInfo", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("WARN")
		defer SetLevel("INFO")

		Debug("debug message")
		Info("info message")
		Warn("warn message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
	})

	t.Run("InvalidLevelIsIgnored", func(t *testing.T) {
		SetLevel("INFO")
		SetLevel("NOISY")
		assert.Equal(t, LevelInfo, Level(currentLevel.Load()))
	})
}

func TestStructuredFields(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	Info("command received", KeyCommand, "RETR", KeyReplyCode, 150)

	out := buf.String()
	assert.Contains(t, out, "command=RETR")
	assert.Contains(t, out, "reply_code=150")
}

func TestJSONFormat(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetFormat("json")
	defer SetFormat("text")

	Info("session opened", KeySessionID, "abc", KeyClientIP, "127.0.0.1")

	line := strings.TrimSpace(buf.String())
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))

	assert.Equal(t, "session opened", record["msg"])
	assert.Equal(t, "abc", record[KeySessionID])
	assert.Equal(t, "127.0.0.1", record[KeyClientIP])
}

func TestWithBindsAttributes(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	l := With(KeySessionID, "s-1")
	l.Info("reply sent", KeyReplyCode, 230)

	out := buf.String()
	assert.Contains(t, out, "session_id=s-1")
	assert.Contains(t, out, "reply_code=230")
}

func TestErrAttrNil(t *testing.T) {
	// nil errors must produce an empty attr that handlers skip
	assert.Equal(t, "", Err(nil).Key)
}
