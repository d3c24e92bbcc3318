// Package logger provides a structured logging interface for applications.
package logger

import (
	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	messageKey = "msg"
	levelKey   = "level"
	nameKey    = "logger"
	timeKey    = "time"

	// EncodingJSON produces one compact JSON object per entry.
	EncodingJSON = "json"
	// EncodingPretty produces colored, human readable entries with indented fields.
	EncodingPretty = "pretty"

	levelDebug = "debug"
)

// Config defines configuration options for the logger.
type Config struct {
	// Level specifies the minimum log level to emit.
	// Valid values are: "debug", "info", "warn", "error"
	Level string `yaml:"level" validate:"oneof=debug info warn error" default:"debug"`

	// Encoding specifies the log format: "json" for log processing systems,
	// "pretty" for terminals.
	Encoding string `yaml:"encoding" validate:"oneof=json pretty" default:"pretty"`

	// Disable creates a no-op logger. Useful in tests.
	Disable bool `yaml:"disable" default:"false"`
}

// getZapConfig converts the logger Config to a zap.Config.
func (c Config) getZapConfig() (*zap.Config, error) {
	zapLevel := zap.NewAtomicLevel()

	err := zapLevel.UnmarshalText([]byte(c.Level))
	if err != nil {
		return nil, errx.Wrap(err)
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     messageKey,
		LevelKey:       levelKey,
		NameKey:        nameKey,
		TimeKey:        timeKey,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	return &zap.Config{
		Level:            zapLevel,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		Encoding:         EncodingJSON,
		EncoderConfig:    encoderConfig,
	}, nil
}
