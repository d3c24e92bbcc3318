package logger

import (
	"context"
	"errors"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/meta"
	"go.uber.org/zap"
)

// Logger defines the logging interface used across the service.
type Logger interface {
	Debug(msg any)
	Info(msg any)
	Warn(msg any)
	Error(msg any)
	Fatal(msg any)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// Warnx logs an error at warn level together with its errx code, type and fields.
	Warnx(err error)
	// Errorx logs an error at error level together with its errx code, type and fields.
	Errorx(err error)

	// With returns a child logger that adds the key-value pairs to every entry.
	With(keysAndValues ...any) Logger
	// WithContext returns a child logger enriched with request metadata from ctx.
	WithContext(ctx context.Context) Logger
	// Named adds a sub-scope to the logger's name.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

// logger implements the Logger interface using zap's SugaredLogger.
type logger struct {
	*zap.SugaredLogger
}

// New creates a new Logger instance with the provided configuration.
func New(cfg Config) (Logger, error) {
	if cfg.Disable {
		return &logger{zap.NewNop().Sugar()}, nil
	}

	zapConfig, err := cfg.getZapConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if cfg.Encoding == EncodingPretty {
		return &logger{newPrettyLogger(zapConfig).Sugar()}, nil
	}

	zl, err := zapConfig.Build()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &logger{zl.Sugar()}, nil
}

// errorFields returns the errx attributes of err as key-value pairs.
func errorFields(err error) []any {
	var e errx.ErrorX
	if !errors.As(err, &e) {
		return nil
	}
	return []any{
		"error_code", e.Code(),
		"error_type", e.Type().String(),
		"error_trace", e.Trace(),
		"error_fields", e.Fields(),
		"error_details", e.Details(),
	}
}

func (l *logger) Warnx(err error) {
	l.SugaredLogger.With(errorFields(err)...).Warn(err.Error())
}

func (l *logger) Errorx(err error) {
	l.SugaredLogger.With(errorFields(err)...).Error(err.Error())
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{l.SugaredLogger.With(keysAndValues...)}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	var fields []any
	for _, k := range meta.Keys() {
		if v := meta.Find(ctx, k); v != "" {
			fields = append(fields, string(k), v)
		}
	}
	if len(fields) == 0 {
		return l
	}

	return l.With(fields...)
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

func (l *logger) Debug(msg any) { l.SugaredLogger.Debug(msg) }
func (l *logger) Info(msg any)  { l.SugaredLogger.Info(msg) }
func (l *logger) Warn(msg any)  { l.SugaredLogger.Warn(msg) }
func (l *logger) Error(msg any) { l.SugaredLogger.Error(msg) }
func (l *logger) Fatal(msg any) { l.SugaredLogger.Fatal(msg) }
