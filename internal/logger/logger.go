// Package logger настраивает глобальный логгер logrus для сервера и импортера.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Поддерживаемые форматы вывода.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Setup выставляет уровень и формат стандартного логгера logrus.
func Setup(level, format string) error {
	return SetupOutput(os.Stderr, level, format)
}

// SetupOutput делает то же, что Setup, но пишет в переданный io.Writer (удобно для тестов).
func SetupOutput(out io.Writer, level, format string) error {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("неизвестный уровень логирования %q: %w", level, err)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("неизвестный формат логирования %q", format)
	}

	log.SetOutput(out)
	log.SetLevel(lvl)
	return nil
}
