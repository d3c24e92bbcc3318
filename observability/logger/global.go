package logger

import (
	"context"
	"sync"
	"sync/atomic"
)

//nolint:gochecknoglobals // global logger singleton
var (
	global   atomic.Pointer[Logger]
	setOnce  sync.Once
	initOnce sync.Once
)

// SetGlobal builds the global logger from cfg. It must be called once at
// startup, before anything logs; a second call panics.
func SetGlobal(cfg Config) {
	called := false
	setOnce.Do(func() {
		initOnce.Do(func() {})

		l, err := New(cfg)
		if err != nil {
			panic("[logger]: failed to initialize global logger: " + err.Error())
		}
		global.Store(&l)
		called = true
	})
	if !called {
		panic("[logger]: SetGlobal can only be called once")
	}
}

// Debug logs a message at debug level using the global logger.
func Debug(msg any) { getGlobal().Debug(msg) }

// Info logs a message at info level using the global logger.
func Info(msg any) { getGlobal().Info(msg) }

// Warn logs a message at warn level using the global logger.
func Warn(msg any) { getGlobal().Warn(msg) }

// Error logs a message at error level using the global logger.
func Error(msg any) { getGlobal().Error(msg) }

// Fatal logs a message at fatal level using the global logger and then calls os.Exit(1).
func Fatal(msg any) { getGlobal().Fatal(msg) }

// Infof logs a formatted message at info level using the global logger.
func Infof(format string, args ...any) { getGlobal().Infof(format, args...) }

// Errorx logs an errx error at error level using the global logger.
func Errorx(err error) { getGlobal().Errorx(err) }

// With returns a child of the global logger carrying the key-value pairs.
func With(keysAndValues ...any) Logger { return getGlobal().With(keysAndValues...) }

// WithContext returns a child of the global logger enriched with request metadata.
func WithContext(ctx context.Context) Logger { return getGlobal().WithContext(ctx) }

// Named adds a sub-scope to the global logger's name.
func Named(name string) Logger { return getGlobal().Named(name) }

// Sync flushes the global logger.
func Sync() error { return getGlobal().Sync() }

// getGlobal returns the global logger, falling back to a debug pretty logger
// when SetGlobal has not been called.
func getGlobal() Logger {
	if l := global.Load(); l != nil {
		return *l
	}

	initOnce.Do(func() {
		l, err := New(Config{Level: levelDebug, Encoding: EncodingPretty})
		if err != nil {
			panic("[logger]: failed to initialize default logger: " + err.Error())
		}
		global.Store(&l)
	})

	return *global.Load()
}
