// Package notify delivers operator notifications (check-ins, checkouts,
// tolerance charges). Delivery is fire-and-forget: a sink never reports
// failure back to the caller.
package notify

import "go.uber.org/zap"

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Sink interface {
	Notify(level Level, title, message string)
}

// LogSink writes notifications to the structured log.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("notify")}
}

func (s *LogSink) Notify(level Level, title, message string) {
	fields := []zap.Field{zap.String("title", title), zap.String("message", message)}
	switch level {
	case LevelError:
		s.log.Error("notification", fields...)
	case LevelWarning:
		s.log.Warn("notification", fields...)
	default:
		s.log.Info("notification", fields...)
	}
}

// Multi fans a notification out to every sink.
type Multi []Sink

func (m Multi) Notify(level Level, title, message string) {
	for _, s := range m {
		s.Notify(level, title, message)
	}
}

type Nop struct{}

func (Nop) Notify(Level, string, string) {}
