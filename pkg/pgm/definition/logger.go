// Package definition carries the transport's ambient defaults: the logger
// used when a caller does not supply one (spec.md §1 ambient stack), in the
// same spirit as the teacher's pkg/mcast/definition package.
package definition

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// NewDefaultLogger builds the logger used when no caller-supplied
// types.Logger is given. It keeps the teacher's bracketed-level,
// toggleable-debug shape (pkg/mcast/definition.DefaultLogger) but swaps the
// stdlib log.Logger backing for logrus, colorizing warning and error message
// text with fatih/color.
func NewDefaultLogger() *DefaultLogger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return &DefaultLogger{entry: logrus.NewEntry(l)}
}

// DefaultLogger adapts a logrus.Entry to the types.Logger contract.
type DefaultLogger struct {
	entry *logrus.Entry
}

// ToggleDebug flips the logger's level between Info and Debug, matching the
// teacher's DefaultLogger.ToggleDebug.
func (l *DefaultLogger) ToggleDebug(on bool) bool {
	if on {
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	}
	return on
}

func (l *DefaultLogger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *DefaultLogger) Infof(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *DefaultLogger) Warnf(format string, v ...interface{}) {
	l.entry.Warnf(colorize(color.FgYellow, format), v...)
}

func (l *DefaultLogger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(colorize(color.FgRed, format), v...)
}

// WithPeer returns a child logger with the peer's TSI attached as a
// structured field, used throughout the dispatch path instead of
// interpolating the TSI into the message string.
func (l *DefaultLogger) WithPeer(tsi fmt.Stringer) *DefaultLogger {
	return &DefaultLogger{entry: l.entry.WithField("tsi", tsi.String())}
}

func colorize(attr color.Attribute, format string) string {
	return color.New(attr).Sprint(format)
}
