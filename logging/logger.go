package logging

import (
	"os"

	"github.com/phuslu/log"
)

// Setup configures the process-wide logger. format "json" writes one JSON
// object per line to stderr; anything else uses the console writer.
func Setup(level, format string) {
	logger := log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
	}
	if format == "json" {
		logger.TimeFormat = ""
		logger.Writer = &log.IOWriter{Writer: os.Stderr}
	} else {
		logger.Writer = &log.ConsoleWriter{
			Writer:         os.Stderr,
			ColorOutput:    true,
			EndWithMessage: true,
		}
	}
	log.DefaultLogger = logger
}
