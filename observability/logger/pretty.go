package logger

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // static palette shared by every encoder clone
var (
	levelColors = map[zapcore.Level]*color.Color{
		zapcore.DebugLevel:  color.New(color.FgCyan),
		zapcore.InfoLevel:   color.New(color.FgGreen),
		zapcore.WarnLevel:   color.New(color.FgYellow),
		zapcore.ErrorLevel:  color.New(color.FgRed, color.Bold),
		zapcore.DPanicLevel: color.New(color.FgRed, color.Bold),
		zapcore.PanicLevel:  color.New(color.FgRed, color.Bold),
		zapcore.FatalLevel:  color.New(color.FgMagenta, color.Bold),
	}
	timeColor   = color.New(color.Faint)
	nameColor   = color.New(color.FgBlue)
	fieldsColor = color.New(color.FgHiBlack)
)

// prettyEncoder renders an entry as a colored header line followed by its
// fields as indented JSON. Field encoding is delegated to zap's JSON encoder.
type prettyEncoder struct {
	zapcore.Encoder
	pool buffer.Pool
}

func newPrettyEncoder(cfg zapcore.EncoderConfig) *prettyEncoder {
	return &prettyEncoder{
		Encoder: zapcore.NewJSONEncoder(cfg),
		pool:    buffer.NewPool(),
	}
}

// Clone keeps derived loggers on the pretty encoder.
func (e *prettyEncoder) Clone() zapcore.Encoder {
	return &prettyEncoder{Encoder: e.Encoder.Clone(), pool: e.pool}
}

// EncodeEntry formats a log entry.
func (e *prettyEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	raw, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer raw.Free()

	buf := e.pool.Get()
	buf.AppendString(header(entry))

	var payload map[string]any
	if err = json.Unmarshal(raw.Bytes(), &payload); err != nil {
		buf.AppendString(" ")
		buf.AppendString(strings.TrimRight(raw.String(), "\n"))
		buf.AppendString("\n")
		return buf, nil //nolint:nilerr // fall back to the raw json line
	}

	for _, k := range []string{messageKey, levelKey, nameKey, timeKey} {
		delete(payload, k)
	}

	if len(payload) > 0 {
		indented, marshalErr := json.MarshalIndent(payload, "", "  ")
		if marshalErr == nil {
			buf.AppendString("\n")
			buf.AppendString(fieldsColor.Sprint(string(indented)))
		}
	}
	buf.AppendString("\n")

	return buf, nil
}

func header(entry zapcore.Entry) string {
	ts := entry.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	level := entry.Level.CapitalString()
	if c, ok := levelColors[entry.Level]; ok {
		level = c.Sprint(level)
	}

	parts := []string{timeColor.Sprint(ts.Format(time.DateTime)), level}
	if entry.LoggerName != "" {
		parts = append(parts, nameColor.Sprint(entry.LoggerName))
	}
	if entry.Message != "" {
		parts = append(parts, entry.Message)
	}

	return strings.Join(parts, " ")
}

func newPrettyLogger(cfg *zap.Config) *zap.Logger {
	core := zapcore.NewCore(newPrettyEncoder(cfg.EncoderConfig), zapcore.Lock(os.Stdout), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr)))
}
