package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	Info("stream started", "queue", "morning", "session", "abc")

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "stream started")
	assert.Contains(t, out, "queue=morning")
	assert.Contains(t, out, "session=abc")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	Info("queue created", "queue", "evening")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "queue created", record["msg"])
	assert.Equal(t, "evening", record["queue"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text", false)

	Debug("not logged")
	Info("not logged either")
	Warn("logged")
	Error("also logged")

	out := buf.String()
	assert.NotContains(t, out, "not logged")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "[ERROR]")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestSetLevelIgnoresInvalid(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	SetLevel("NONSENSE")

	Info("still at info")
	assert.Contains(t, buf.String(), "still at info")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	l := With("component", "streamer")
	l.Info("chunk written")

	out := buf.String()
	assert.Contains(t, out, "component=streamer")
	assert.Contains(t, out, "chunk written")
}

func TestInitSwitchesOutputFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	require.NoError(t, Init(Config{Level: "INFO", Format: "text", Output: first}))
	Info("written to first")

	// Re-init with only a new output; level and format carry over
	require.NoError(t, Init(Config{Output: second}))
	Info("written to second")

	firstData, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(firstData), "written to first")
	assert.NotContains(t, string(firstData), "written to second")

	secondData, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(secondData), "written to second")
}

func TestColorOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", true)

	Info("colored")
	assert.Contains(t, buf.String(), colorGreen)
}
