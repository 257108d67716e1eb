package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ConfigureCliLogging sets up the standard logger for the command line tools: coloured text with
// full timestamps on stdout.
func ConfigureCliLogging() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)
}

// SetLevel parses level (e.g. "debug", "info", "warn") and applies it to the standard logger.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return errors.WithStack(err)
	}
	log.SetLevel(parsed)
	return nil
}

// SummaryLogger returns a logger writing bare messages to stdout, used for the final report.
func SummaryLogger() *log.Logger {
	return newSummaryLogger(os.Stdout)
}

func newSummaryLogger(out io.Writer) *log.Logger {
	return &log.Logger{
		Out:       out,
		Formatter: new(summaryFormatter),
		Hooks:     make(log.LevelHooks),
		Level:     log.InfoLevel,
	}
}

// summaryFormatter prints the message alone, ending in exactly one newline however many the
// message already carries.
type summaryFormatter struct{}

func (f *summaryFormatter) Format(entry *log.Entry) ([]byte, error) {
	return []byte(strings.TrimRight(entry.Message, "\n") + "\n"), nil
}
