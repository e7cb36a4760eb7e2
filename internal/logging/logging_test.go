package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestTraceHook_StampsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "debug")

	ctx := ContextWithTraceID(context.Background(), "trace-123")
	logger.Info().Ctx(ctx).Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "trace-123", line[FieldTraceID])
	assert.Equal(t, "hello", line["message"])
}

func TestTraceHook_NoContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "debug")

	logger.Info().Msg("plain")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, FieldTraceID)
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(NewWriterLogger(&buf, "info"), "pagination")

	logger.Warn().Msg("x")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "pagination", line[FieldComponent])
}

func TestGetOrGenerateTraceID(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "existing")
	assert.Equal(t, "existing", GetOrGenerateTraceID(ctx))

	generated := GetOrGenerateTraceID(context.Background())
	_, err := ulid.ParseStrict(generated)
	require.NoError(t, err)
	assert.NotEqual(t, generated, NewTraceID())
}

func TestFromContext_Disabled(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "listmembers.log")

	result := NewLoggerWithPath(Config{Level: "info", Output: OutputFile, File: path})
	t.Cleanup(func() { _ = result.Close() })

	assert.True(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, path, result.FilePath)
	assert.FileExists(t, path)
}

func TestNewLoggerWithPath_FallbackToStderr(t *testing.T) {
	dir := t.TempDir()

	// A directory cannot be opened as a log file.
	result := NewLoggerWithPath(Config{Output: OutputFile, File: dir})

	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
	assert.NoError(t, result.Close())
}
