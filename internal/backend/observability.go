package backend

import (
	"go.uber.org/zap"
)

// CallEvent records metadata about a single backend call.
type CallEvent struct {
	Operation  string
	Method     string
	Path       string
	RequestID  string
	StatusCode int
	LatencyMs  int64
	Success    bool
	ErrorCode  string
}

// Observer receives events about backend calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a zap logger.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogObserver{log: log.Named("backend")}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	fields := []zap.Field{
		zap.String("op", e.Operation),
		zap.String("method", e.Method),
		zap.String("path", e.Path),
		zap.String("request_id", e.RequestID),
		zap.Int("status", e.StatusCode),
		zap.Int64("latency_ms", e.LatencyMs),
	}
	if e.Success {
		o.log.Info("backend_call", fields...)
		return
	}
	o.log.Warn("backend_call", append(fields, zap.String("error_code", e.ErrorCode))...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
