package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

var log = New(os.Stdout, logrus.InfoLevel)

// New builds a JSON logger with the field names the log pipeline expects
func New(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.Level = level
	l.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	l.Out = out
	return l
}

func L() *logrus.Logger {
	return log
}

// SetLevel parses a level name, unknown names keep the current level
func SetLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		log.WithField("level", name).Warn("unknown log level, keeping " + log.Level.String())
		return
	}
	log.SetLevel(level)
}

// SetOutput redirects the package logger, used by tests
func SetOutput(out io.Writer) {
	log.SetOutput(out)
}

// FromContext returns an entry carrying trace_id and span_id of the active span
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(log).WithContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return entry
	}
	return entry.WithFields(logrus.Fields{
		"trace_id": sc.TraceID().String(),
		"span_id":  sc.SpanID().String(),
	})
}
