package onboarding

import (
	"go.uber.org/zap"

	"github.com/alexanderramin/onboard/internal/domain"
)

// EventKind identifies an engine event.
type EventKind string

const (
	EventStarted       EventKind = "started"
	EventNameCaptured  EventKind = "name_captured"
	EventAnswered      EventKind = "answered"
	EventOptionsLoaded EventKind = "options_loaded"
	EventOptionsFailed EventKind = "options_failed"
	EventRewound       EventKind = "rewound"
	EventSaveFailed    EventKind = "save_failed"
	EventCompleted     EventKind = "completed"
)

// Event describes a state transition. Answer values are never included.
type Event struct {
	Kind     EventKind
	UserType domain.UserType
	Step     int
	Field    domain.Field
	Count    int
	Saved    bool
	Err      error
}

// Observer receives engine events.
type Observer interface {
	OnEvent(Event)
}

// NoopObserver discards every event.
type NoopObserver struct{}

func (NoopObserver) OnEvent(Event) {}

// LogObserver writes events to a zap logger.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogObserver{log: log.Named("engine")}
}

func (o *LogObserver) OnEvent(e Event) {
	fields := []zap.Field{
		zap.String("event", string(e.Kind)),
		zap.String("user_type", string(e.UserType)),
		zap.Int("step", e.Step),
	}
	if e.Field != "" {
		fields = append(fields, zap.String("field", string(e.Field)))
	}
	if e.Count > 0 {
		fields = append(fields, zap.Int("count", e.Count))
	}
	switch e.Kind {
	case EventOptionsFailed, EventSaveFailed:
		o.log.Warn("onboarding", append(fields, zap.Error(e.Err))...)
	case EventCompleted:
		o.log.Info("onboarding", append(fields, zap.Bool("saved", e.Saved))...)
	default:
		o.log.Debug("onboarding", fields...)
	}
}
