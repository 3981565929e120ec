package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})

	Info("order placed", map[string]interface{}{"order_id": 7})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "order placed", entry["message"])
	assert.Equal(t, float64(7), entry["order_id"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "warn", Format: "json", Output: &buf})

	Debug("hidden")
	Info("hidden")
	assert.Empty(t, buf.String())

	Error("storage failure", errors.New("connection reset"))
	assert.Contains(t, buf.String(), "connection reset")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "info", Format: "json", Output: &buf})

	l := WithContext(map[string]interface{}{"request_id": "abc"})
	l.Warn("slow request")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["request_id"])
	assert.Equal(t, "warn", entry["level"])
}

func TestParseLogLevel_Default(t *testing.T) {
	assert.Equal(t, parseLogLevel("info"), parseLogLevel("verbose"))
}
