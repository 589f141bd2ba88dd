// Package midilog is the module's structured logging seam, grounded in
// leandrodaf-midi's ZapLogger (which wraps zap.NewProduction/NewDevelopment)
// and in the teacher's own categorized debug.Log(category, format, args...)
// calling convention — here the "category" becomes a zap field instead of
// a hand-rolled file-logging package.
package midilog

import (
	"go.uber.org/zap"
)

// Logger is a thin *zap.SugaredLogger wrapper. Named scopes it to a
// component, which zap records as the logger name on every line, so
// engine/transport log lines say which part of the system emitted them.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New returns a production or development zap-backed Logger. dev selects
// zap.NewDevelopment's human-readable console encoding over the default
// JSON production encoding.
func New(dev bool) (*Logger, error) {
	var zl *zap.Logger
	var err error
	if dev {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: zl.Sugar()}, nil
}

// Named returns a Logger scoped to the given component for the lifetime of
// the caller, e.g. log.Named("transport") on a Logger returned by New.
func (l *Logger) Named(component string) *Logger {
	return &Logger{sugar: l.sugar.Named(component)}
}

func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries, following zap's own recommended
// shutdown sequence.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
