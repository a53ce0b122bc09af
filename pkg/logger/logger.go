// Package logger wraps logrus with the contextual fields this service
// attaches to nearly every log line: league, week, and run identifiers.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the package-level logrus instance for the given
// environment. Development gets human-readable text output at debug
// level; everything else gets JSON at info level.
func Setup(isDevelopment bool) {
	if isDevelopment {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetOutput(os.Stdout)
}

// WithService scopes log lines to a named component, e.g. "snapshot-store"
// or "monte-carlo".
func WithService(name string) *logrus.Entry {
	return logrus.WithField("service", name)
}

// WithLeagueContext attaches league/year identifiers shared by nearly
// every operation in this engine.
func WithLeagueContext(leagueID, year int) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"league_id": leagueID,
		"year":      year,
	})
}

// WithWeek adds a week field to an existing entry.
func WithWeek(entry *logrus.Entry, week int) *logrus.Entry {
	return entry.WithField("week", week)
}

// WithRun adds a run identifier, used by backtests and A/B evaluations
// to correlate log lines with a persisted run record.
func WithRun(entry *logrus.Entry, runID string) *logrus.Entry {
	return entry.WithField("run_id", runID)
}
