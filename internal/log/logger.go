package log

import (
	"context"
	"io"
	"os"

	"tagdesk/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured log lines.
type Logger struct {
	base *logrus.Logger
	file *os.File
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to JSON lines.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
}

// WithFile appends log lines to path in addition to stdout.
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			l.base.Warnf("cannot open log file %s: %v", path, err)
			return
		}
		l.file = f
		l.base.SetOutput(io.MultiWriter(os.Stderr, f))
	}
}

// NewLogger creates a text logger on stderr, adjusted by opts. Command
// output owns stdout.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// SetDebug toggles Debug output for every logger.
func SetDebug(debug bool) {
	isDebug = debug
}

// Entry is a log line under construction with fields attached.
type Entry struct {
	e *logrus.Entry
}

func toFields(fields []Field) logrus.Fields {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return lf
}

// With attaches fields.
func (l *Logger) With(fields ...Field) *Entry {
	return &Entry{e: l.base.WithFields(toFields(fields))}
}

// WithContext returns an entry bound to ctx.
func (l *Logger) WithContext(ctx context.Context) *Entry {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Entry{e: l.base.WithContext(ctx)}
}

func (l *Logger) Info(format string, args ...interface{})  { l.base.Infof(format, args...) }
func (l *Logger) Infof(format string, args ...interface{}) { l.base.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.base.Warnf(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.base.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.base.Errorf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.base.Errorf(format, args...)
}

// Debug logs only when debug output is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if isDebug {
		l.base.Debugf(format, args...)
	}
}

// Debugf logs only when debug output is enabled
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(format, args...)
}

// With attaches more fields.
func (e *Entry) With(fields ...Field) *Entry {
	return &Entry{e: e.e.WithFields(toFields(fields))}
}

func (e *Entry) Info(msg string)  { e.e.Info(msg) }
func (e *Entry) Warn(msg string)  { e.e.Warn(msg) }
func (e *Entry) Error(msg string) { e.e.Error(msg) }

// Debug logs only when debug output is enabled
func (e *Entry) Debug(msg string) {
	if isDebug {
		e.e.Debug(msg)
	}
}

func (e *Entry) Infof(format string, args ...interface{})  { e.e.Infof(format, args...) }
func (e *Entry) Warnf(format string, args ...interface{})  { e.e.Warnf(format, args...) }
func (e *Entry) Errorf(format string, args ...interface{}) { e.e.Errorf(format, args...) }

// Info logs a formatted message on the package logger
func Info(format string, args ...interface{}) {
	logger.Info(format, args...)
}

// Infof logs a formatted message on the package logger
func Infof(format string, args ...interface{}) {
	logger.Info(format, args...)
}

// Debug logs a formatted message when debug output is enabled
func Debug(format string, args ...interface{}) {
	logger.Debug(format, args...)
}

// Debugf logs a formatted message when debug output is enabled
func Debugf(format string, args ...interface{}) {
	logger.Debug(format, args...)
}

// Warn logs a formatted warning
func Warn(format string, args ...interface{}) {
	logger.Warn(format, args...)
}

// Warnf logs a formatted warning
func Warnf(format string, args ...interface{}) {
	logger.Warn(format, args...)
}

// Error logs a formatted error
func Error(format string, args ...interface{}) {
	logger.Error(format, args...)
}

// Errorf logs a formatted error
func Errorf(format string, args ...interface{}) {
	logger.Error(format, args...)
}

// LogWithFields starts an entry on the package logger.
func LogWithFields(fields ...Field) *Entry {
	return logger.With(fields...)
}

// LogWithError starts an entry describing err: its message, its kind and
// the path, tag, model or parameter it carries.
func LogWithError(err error) *Entry {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}

	fields := []Field{
		F("error", err.Error()),
		F("error_kind", errors.KindOf(err).String()),
	}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var tagErr *errors.TagError
	if errors.As(err, &tagErr) && tagErr.Tag() != "" {
		fields = append(fields, F("tag", tagErr.Tag()))
	}
	var modelErr *errors.ModelError
	if errors.As(err, &modelErr) && modelErr.Model() != "" {
		fields = append(fields, F("model", modelErr.Model()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}

	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}
