package logger

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Level       string
	JSON        bool
	SentryDSN   string
	Environment string
}

// Init configures the global logrus logger and, when a DSN is given, Sentry.
func Init(opts Options) error {
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if opts.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.SentryDSN == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:         opts.SentryDSN,
		Environment: opts.Environment,
	})
}

// Flush waits for buffered Sentry events before shutdown.
func Flush() {
	sentry.Flush(2 * time.Second)
}

// LogError logs errors with structured context to both console and Sentry.
func LogError(errorType string, err error, fields map[string]interface{}) {
	entry := logrus.WithFields(logrus.Fields{
		"error_type": errorType,
		"error":      err.Error(),
	})
	for k, v := range fields {
		entry = entry.WithField(k, v)
	}
	entry.Error("Error occurred")

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", errorType)
		for k, v := range fields {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// LogEvent logs events with structured context.
func LogEvent(eventType string, data map[string]interface{}) {
	entry := logrus.WithField("event_type", eventType)
	for k, v := range data {
		entry = entry.WithField(k, v)
	}
	entry.Info("Event occurred")

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "info",
		Category:  eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
}
