package logger

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

const DefaultPrefix = "VMCTX"

// Init installs the process-wide logger. Only warnings and errors are shown unless debug is set.
func Init(debug, noColor bool, prefix string) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}

	profile := termenv.ANSI256
	if noColor {
		profile = termenv.Ascii
	}

	l := log.NewWithOptions(os.Stderr, log.Options{
		Level:        level,
		Prefix:       prefix,
		ReportCaller: debug,
	})
	l.SetColorProfile(profile)
	log.SetDefault(l)
}
