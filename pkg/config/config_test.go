package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flowdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
database_url: postgres://flowdesk@db/flowdesk
event_bus: kafka
kafka_brokers:
  - kafka-1:9092
  - kafka-2:9092
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://flowdesk@db/flowdesk", cfg.DatabaseURL)
	assert.Equal(t, "kafka", cfg.EventBus)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "port: [nope"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "port: 70000"))
	require.ErrorIs(t, err, ErrInvalidPort)
}
