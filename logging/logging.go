// Package logging builds the service logger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a JSON-formatted logger with its level taken from
// LOG_LEVEL (default info).
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))
	return log
}

func parseLevel(v string) logrus.Level {
	switch v {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
