package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/blaaiz/blaaiz-go/config"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

var (
	logger        = logrus.New()
	sentryEnabled bool
)

func init() {
	logger.Level = logrus.WarnLevel
	logger.Formatter = &formatter{}
	logger.Out = os.Stderr
}

// Configure applies the receiver configuration: log level, and Sentry
// reporting in production and staging when a DSN is set.
func Configure(cfg *config.ServerConfiguration) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Level = level
	logger.SetReportCaller(true)

	if cfg.SentryDSN == "" || (cfg.Environment != "production" && cfg.Environment != "staging") {
		sentryEnabled = false
		return nil
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	sentryEnabled = true
	return nil
}

// SetOutput redirects log output
func SetOutput(out io.Writer) {
	logger.Out = out
}

// SetLogLevel sets the log level for the logger.
func SetLogLevel(level logrus.Level) {
	logger.Level = level
}

// Fields type, used to pass to `WithFields`.
type Fields logrus.Fields

// WithFields returns an entry carrying the given fields
func WithFields(fields Fields) *logrus.Entry {
	return logger.WithFields(logrus.Fields(fields))
}

// ErrorWithFields logs an error with additional context
func ErrorWithFields(err error, fields Fields) {
	if logger.Level >= logrus.ErrorLevel {
		wrappedErr := fmt.Errorf("error occurred: %w", err)
		captureException(wrappedErr, fields)
		logger.WithFields(logrus.Fields(fields)).Error(wrappedErr.Error())
	}
}

// Debugf logs a message at level Debug with optional fields
func Debugf(format string, fields Fields, args ...interface{}) {
	if logger.Level >= logrus.DebugLevel {
		logger.WithFields(logrus.Fields(fields)).Debugf(format, args...)
	}
}

// Infof logs a message at level Info with optional fields
func Infof(format string, fields Fields, args ...interface{}) {
	if logger.Level >= logrus.InfoLevel {
		logger.WithFields(logrus.Fields(fields)).Infof(format, args...)
	}
}

// Warnf logs a message at level Warn with optional fields
func Warnf(format string, fields Fields, args ...interface{}) {
	if logger.Level >= logrus.WarnLevel {
		captureMessage(sentry.LevelWarning, fmt.Sprintf(format, args...), fields)
		logger.WithFields(logrus.Fields(fields)).Warnf(format, args...)
	}
}

// Errorf logs an error message with fields
func Errorf(format string, fields Fields, args ...interface{}) {
	if logger.Level >= logrus.ErrorLevel {
		errMsg := fmt.Sprintf(format, args...)
		captureMessage(sentry.LevelError, errMsg, fields)
		logger.WithFields(logrus.Fields(fields)).Error(errMsg)
	}
}

// Fatalf logs a fatal message with fields
func Fatalf(format string, fields Fields, args ...interface{}) {
	errMsg := fmt.Sprintf(format, args...)
	captureMessage(sentry.LevelFatal, errMsg, fields)
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
	logger.WithFields(logrus.Fields(fields)).Fatal(errMsg)
}

func captureMessage(level sentry.Level, msg string, fields Fields) {
	if !sentryEnabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		applyFields(scope, fields)
		sentry.CaptureMessage(msg)
	})
}

func captureException(err error, fields Fields) {
	if !sentryEnabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		applyFields(scope, fields)
		sentry.CaptureException(err)
	})
}

func applyFields(scope *sentry.Scope, fields Fields) {
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			scope.SetTag(key, v)
		default:
			scope.SetExtra(key, value)
		}
	}
}

// Formatter implements logrus.Formatter interface
type formatter struct {
	prefix string
}

// Format building log message
func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var sb bytes.Buffer
	sb.WriteString(strings.ToUpper(entry.Level.String()))
	sb.WriteString(" ")
	sb.WriteString(entry.Time.Format(time.RFC3339))
	sb.WriteString(" ")
	sb.WriteString(f.prefix)
	sb.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for key := range entry.Data {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		sb.WriteString(" [")
		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("%s=%v ", key, entry.Data[key]))
		}
		sb.WriteString("]")
	}
	sb.WriteString("\n")

	return sb.Bytes(), nil
}
