// Package klog wraps github.com/sirupsen/logrus with the small set of
// leveled helpers the engine actually calls, per SPEC_FULL.md's ambient
// logging section: the teacher has no structured logging (rhartert/yass
// prints directly with fmt in main.go), so this package is grounded on
// SPEC_FULL.md's choice of logrus as the corpus-wide logging library
// (chosen for its field-based API, a good match for the engine's
// "conflicts=%d level=%d" style trace lines) rather than any one example
// file.
package klog

import "github.com/sirupsen/logrus"

// Logger is the engine-wide structured logger, field-scoped per component
// via With.
type Logger struct {
	entry *logrus.Entry
}

// New returns a Logger at the given level ("debug", "info", "warn",
// "error"), writing to logrus's default (stderr) output.
func New(level string) *Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return &Logger{entry: logrus.NewEntry(l)}
}

// With returns a child logger scoped to one engine component, e.g.
// klog.New("info").With("component", "reduce").
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
