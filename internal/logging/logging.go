package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"hello-world-lambda/internal/config"
)

// New builds a logger from the configuration. A nil out writes to stderr.
func New(cfg *config.Config, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(cfg.Log.Level)
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}
	return logger
}
