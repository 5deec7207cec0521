package clixon

import "github.com/sirupsen/logrus"

// NewLogger builds the structured logger every facade and CLI entry
// point logs through (SPEC_FULL.md §2.2). It attaches no fields itself;
// WithDatastore adds the datastore field to every line logged through
// the entry it returns.
func NewLogger(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// WithDatastore scopes log to a named datastore, the way the reference's
// handle carries session/request context through every call.
func WithDatastore(log *logrus.Logger, db string) *logrus.Entry {
	return log.WithField("datastore", db)
}
