package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Init configures the global logger with the given level ("debug", "info", ...).
func Init(level string) {
	once.Do(func() {
		log = logrus.New()
		log.SetOutput(os.Stdout)
		log.SetFormatter(&logrus.JSONFormatter{})

		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			parsed = logrus.InfoLevel
		}
		log.SetLevel(parsed)
	})
}

// GetLogger returns the global logger, initializing it with defaults if needed.
func GetLogger() *logrus.Logger {
	if log == nil {
		Init("info")
	}
	return log
}
