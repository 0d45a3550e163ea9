package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogErrorWritesStructuredFields(t *testing.T) {
	require.NoError(t, Init(Options{Level: "debug", JSON: true}))

	var buf bytes.Buffer
	logrus.SetOutput(&buf)

	LogError("notification_failed", errors.New("smtp down"), map[string]interface{}{
		"channel": "admin",
	})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "notification_failed", line["error_type"])
	assert.Equal(t, "smtp down", line["error"])
	assert.Equal(t, "admin", line["channel"])
	assert.Equal(t, "error", line["level"])
}

func TestInitFallsBackToInfoOnBadLevel(t *testing.T) {
	require.NoError(t, Init(Options{Level: "loud"}))
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
