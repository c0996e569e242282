// Package diag provides the diagnostic sink the filesystem engine writes
// human-readable messages to. It stands in for the C source's
// printf-style callback (printfunc in fs-api.h): purely for operator
// visibility, never consulted for control flow.
package diag

import "github.com/sirupsen/logrus"

// Sink receives formatted diagnostic messages from the engine. Its
// absence must never affect correctness — callers that do not care can
// pass Discard.
type Sink interface {
	Printf(format string, args ...any)
}

// sinkFunc adapts a plain function to a Sink.
type sinkFunc func(format string, args ...any)

func (f sinkFunc) Printf(format string, args ...any) { f(format, args...) }

// Discard is a Sink that drops every message.
var Discard Sink = sinkFunc(func(string, ...any) {})

// logrusSink adapts a *logrus.Entry to Sink, logging every message at
// Info; see Leveled for a sink that can also log at Warn and Error.
type logrusSink struct {
	entry *logrus.Entry
}

// NewLogrusSink wraps logger (or logrus.StandardLogger() if nil) as a
// Sink, attaching the given fields to every message so diagnostics from
// one Filesystem handle can be told apart from another's (see
// uxfs.Filesystem.SessionID).
func NewLogrusSink(logger *logrus.Logger, fields logrus.Fields) Sink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logrusSink{entry: logger.WithFields(fields)}
}

func (s logrusSink) Printf(format string, args ...any) {
	s.entry.Infof(format, args...)
}

// Leveled lets a caller route engine diagnostics at a caller-chosen
// severity rather than always Info; uxfs itself only ever calls
// Printf, but a host tool wiring its own Sink around logrus can type
// assert for this to pick Warn/Error based on content.
type Leveled interface {
	Sink
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type leveledLogrusSink struct {
	entry *logrus.Entry
}

// NewLeveledLogrusSink is like NewLogrusSink but returns a Sink that
// also implements Leveled, for callers (cmd/mkuxfs) that want to
// distinguish severities explicitly instead of logging everything at
// Info.
func NewLeveledLogrusSink(logger *logrus.Logger, fields logrus.Fields) Leveled {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return leveledLogrusSink{entry: logger.WithFields(fields)}
}

func (s leveledLogrusSink) Printf(format string, args ...any) { s.entry.Infof(format, args...) }
func (s leveledLogrusSink) Warnf(format string, args ...any)  { s.entry.Warnf(format, args...) }
func (s leveledLogrusSink) Errorf(format string, args ...any) { s.entry.Errorf(format, args...) }
