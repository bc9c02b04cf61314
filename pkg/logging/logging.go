// Package logging is the zap-backed key/value logger shared by every booking component.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "booking"

// Logger is a key-value structured logger. Every entry carries service=booking;
// components add their own name through Component.
type Logger struct {
	s *zap.SugaredLogger
}

func New(level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]any{"service": serviceName}

	z, err := cfg.Build()
	if err != nil {
		z, _ = zap.NewProduction()
	}
	return &Logger{s: z.Sugar()}
}

// NewWithCore wraps an existing zap core; tests use it with an observer.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{s: zap.New(core).Sugar().With("service", serviceName)}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{s: l.s.With(keyvals...)}
}

// Component tags entries with the emitting part of the engine (booking, dispatcher, http ...).
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

func (l *Logger) Debug(msg string, keyvals ...any) { l.s.Debugw(msg, keyvals...) }
func (l *Logger) Info(msg string, keyvals ...any)  { l.s.Infow(msg, keyvals...) }
func (l *Logger) Warn(msg string, keyvals ...any)  { l.s.Warnw(msg, keyvals...) }
func (l *Logger) Error(msg string, keyvals ...any) { l.s.Errorw(msg, keyvals...) }

func (l *Logger) Sync() error {
	return l.s.Sync()
}

// ParseLevel maps LOG_LEVEL values onto zap levels. Unknown values fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
