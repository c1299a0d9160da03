package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: "debug", Output: buf})
	t.Cleanup(func() { Setup(DefaultConfig()) })

	logger := FromContext(context.Background())
	logger.Info().Str("key", "value").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "value", entry["key"])
	assert.NotEmpty(t, entry["time"])
}

func TestSetupInvalidLevelFallsBack(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: "nonsense", Output: buf})
	t.Cleanup(func() { Setup(DefaultConfig()) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestFromContextRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: "debug", Output: buf})
	t.Cleanup(func() { Setup(DefaultConfig()) })

	ctx := WithRequestID(context.Background(), "req-42")
	logger := FromContext(ctx)
	logger.Info().Msg("tagged")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry["request_id"])
}
