package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to out at the given level. An unknown level
// falls back to warn
func New(out io.Writer, level string, json bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if json {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.WarnLevel
	}
	log.SetLevel(parsed)

	return log
}
