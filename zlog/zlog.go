// Package zlog provides the single shared structured logger used across the
// preprocessor, assembler, and processor packages.
package zlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// L is the process-wide logger. Callers that want a scoped logger should use
// WithField/WithFields rather than constructing a new logrus.Logger.
var L = newLogger()

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stderr
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   false,
		DisableColors:   false,
		DisableQuote:    true,
		TimestampFormat: "15:04:05.000",
	}
	log.Level = logrus.InfoLevel
	if v := os.Getenv("Z33_LOG_LEVEL"); v != "" {
		if lvl, err := logrus.ParseLevel(v); err == nil {
			log.Level = lvl
		}
	}
	return log
}

// Component returns a field-scoped entry so log lines are attributable to
// one of the five core subsystems.
func Component(name string) *logrus.Entry {
	return L.WithField("component", name)
}
