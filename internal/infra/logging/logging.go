// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup applies format ("json" or "text") and level to the standard logger.
// An unknown level falls back to info and is reported once.
func Setup(format, level string) {
	configure(log.StandardLogger(), os.Stderr, format, level)
}

func configure(l *log.Logger, out io.Writer, format, level string) {
	l.SetOutput(out)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		l.SetFormatter(&log.JSONFormatter{
			FieldMap: log.FieldMap{log.FieldKeyMsg: "message", log.FieldKeyLevel: "severity"},
		})
	default:
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		l.SetLevel(log.InfoLevel)
		l.WithField("level", level).Warn("unknown log level, using info")
		return
	}
	l.SetLevel(lvl)
}
