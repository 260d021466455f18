package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/adamjdecaria/cs50wproject1/internal/logger"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupOutput(t *testing.T) {
	t.Cleanup(func() {
		_ = logger.Setup("info", logger.FormatText)
	})

	t.Run("JSON формат", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, logger.SetupOutput(&buf, "debug", "json"))

		log.WithField("component", "test").Debug("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "test", entry["component"])
		assert.Equal(t, "debug", entry["level"])
	})

	t.Run("Уровень отсекает сообщения", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, logger.SetupOutput(&buf, "WARN", "text"))

		log.Info("не должно попасть")
		assert.Empty(t, buf.String())

		log.Warn("должно попасть")
		assert.Contains(t, buf.String(), "должно попасть")
	})

	t.Run("Неизвестный уровень", func(t *testing.T) {
		err := logger.SetupOutput(&bytes.Buffer{}, "loud", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "уровень")
	})

	t.Run("Неизвестный формат", func(t *testing.T) {
		err := logger.SetupOutput(&bytes.Buffer{}, "info", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "формат")
	})
}
