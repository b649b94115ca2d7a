package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// TestLoggerWritesStructuredOutput verifies events reach the registered writers in
// structured form.
func TestLoggerWritesStructuredOutput(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buffer)

	logger.Info("discovered ", 2, " contracts")

	output := buffer.String()
	assert.Contains(t, output, "discovered 2 contracts")
	assert.Contains(t, output, `"level":"info"`)
}

// TestLoggerLevelFiltering verifies events below the configured level are dropped.
func TestLoggerLevelFiltering(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(zerolog.WarnLevel, false, &buffer)

	logger.Info("quiet")
	assert.Empty(t, buffer.String())

	logger.Warn("loud")
	assert.Contains(t, buffer.String(), "loud")

	logger.SetLevel(zerolog.DebugLevel)
	assert.Equal(t, zerolog.DebugLevel, logger.Level())
	logger.Debug("now visible")
	assert.Contains(t, buffer.String(), "now visible")
}

// TestSubLoggerTagsEvents verifies sub-loggers attach their key-value pair to every
// event.
func TestSubLoggerTagsEvents(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buffer).NewSubLogger("module", "contracts")

	logger.Info("scan complete")

	output := buffer.String()
	assert.Contains(t, output, `"module":"contracts"`)
	assert.Contains(t, output, "scan complete")
}
