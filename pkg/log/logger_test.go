package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

func TestLogRespectsVerbosity(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, 1)

	logger.Log("visible", 1)
	logger.Log("hidden", 2)

	out := buf.String()
	assert.Contains(t, out, "visible")
	assert.NotContains(t, out, "hidden")
}

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, 2)

	logger.Logf(2, "score: %.2f", 0.875)
	assert.Contains(t, buf.String(), "score: 0.88")
}

func TestNopLoggerIsSilent(t *testing.T) {
	logger := NewNop()
	logger.Log("anything", 0)
	logger.Logf(0, "anything %d", 1)
	logger.Warn(errors.New("ignored"))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Log("anything", 1)
	logger.Event(1).Msg("anything")
}

func TestEventFiltered(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructured(&buf, 1)

	logger.Event(1).Str("k", "v").Msg("kept")
	logger.Event(5).Str("k", "v").Msg("dropped")

	out := buf.String()
	assert.Contains(t, out, "kept")
	assert.NotContains(t, out, "dropped")

	t.Run("filtered event is usable", func(t *testing.T) {
		ev := logger.Event(5)
		assert.NotNil(t, ev)
		ev.Int("calls", 3).Msg("still dropped")
		assert.NotContains(t, buf.String(), "still dropped")
	})
}

func TestWarnStructuredError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructured(&buf, 0)

	logger.Warn(errors.NewNotFittedError("LR", "Predict"))
	assert.Contains(t, buf.String(), "LR")
}
