package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  log_level: debug
  log_format: json
kafka:
  enabled: true
  broker_addr: broker:9092
  topic: custom-events
otel:
  enabled: true
  endpoint: collector:4317
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config := &Config{}
	config.Kafka.BrokerAddr = "localhost:9092"
	config.Feed.File = "feed.yaml"

	require.NoError(t, mergeFile(config, path))

	assert.Equal(t, "debug", config.Server.LogLevel)
	assert.Equal(t, "json", config.Server.LogFormat)
	assert.True(t, config.Kafka.Enabled)
	assert.Equal(t, "broker:9092", config.Kafka.BrokerAddr)
	assert.Equal(t, "custom-events", config.Kafka.Topic)
	assert.True(t, config.Otel.Enabled)
	assert.Equal(t, "collector:4317", config.Otel.Endpoint)

	// Values absent from the file keep their prior setting.
	assert.Equal(t, "feed.yaml", config.Feed.File)
}

func TestMergeFileMissing(t *testing.T) {
	config := &Config{}
	err := mergeFile(config, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestMergeFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	config := &Config{}
	require.Error(t, mergeFile(config, path))
}
