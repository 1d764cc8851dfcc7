package config

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger builds the root logger from the log section
func (c LogConfig) NewLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "vi-traffic",
	})

	if level, err := log.ParseLevel(c.Level); err == nil {
		logger.SetLevel(level)
	}

	switch strings.ToLower(c.Format) {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}

	return logger
}
