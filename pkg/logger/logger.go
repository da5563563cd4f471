package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Level string
	JSON  bool
}

// New builds the process logger. It is constructed once in main and passed
// to the components that log, rather than living as a package global.
func New(config Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if config.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
