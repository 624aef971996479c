package app

import (
	"strings"

	"github.com/ymango/ymango/pkg/logger"
)

// ConfigureLogging initialises the global logger with the provided level, defaulting to info.
// encoding selects "json" or "console" output.
func ConfigureLogging(level, encoding string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	encoding = strings.ToLower(strings.TrimSpace(encoding))
	if encoding == "" {
		encoding = "json"
	}
	return logger.InitWithEncoding(level, encoding)
}
