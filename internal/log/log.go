// Package log provides the small, level-based logging surface used
// throughout isobox. It wraps logrus the way the teacher's call sites
// use its own internal pkg/log: Debugf/Infof/Warningf/Errorf, nothing
// fancier.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetDebug toggles debug-level logging, equivalent to the teacher's
// --debug flag.
func SetDebug(on bool) {
	if on {
		std.SetLevel(logrus.DebugLevel)
	} else {
		std.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects the logger, e.g. to a file.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Warningf(format string, args ...any) { std.Warnf(format, args...) }
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
