package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf)

	logger.Info("server_start", map[string]any{"addr": ":3000"})

	entry := lastEntry(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "server_start", entry["message"])
	assert.Equal(t, ":3000", entry["addr"])
	assert.NotEmpty(t, entry["timestamp"])
}

func TestLoggerWithCarriesBaseFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf).With(map[string]any{"request_id": "abc-123"})

	logger.Error("panic_recovered", map[string]any{"path": "/api/pets"})

	entry := lastEntry(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "abc-123", entry["request_id"])
	assert.Equal(t, "/api/pets", entry["path"])
}

func TestLoggerCallFieldsWinOverBase(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf).With(map[string]any{"ip": "base"})

	logger.Warn("http_request", map[string]any{"ip": "10.0.0.1"})

	entry := lastEntry(t, &buf)
	assert.Equal(t, "10.0.0.1", entry["ip"])
}
