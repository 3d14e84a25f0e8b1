// Package observability carries structured events out of the navigation
// core and the service layer. Events are delivered to an Observer; the
// package ships a slog-backed observer, a no-op observer and a fan-out
// observer, plus the process logger built on tint.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is event severity. Values follow the OpenTelemetry SeverityNumber
// ranges so they can be forwarded without translation.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// String returns the severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps the level onto slog.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event, e.g. "nav.search.complete".
type EventType string

const (
	EventSearchComplete EventType = "nav.search.complete"
	EventCellToggled    EventType = "nav.cell.toggled"
	EventAgentMoved     EventType = "agent.moved"
	EventSessionCreated EventType = "session.created"
	EventSessionDeleted EventType = "session.deleted"
)

// Event is a single observation. Data keys are flattened into log
// attributes or metric labels by the receiving observer.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOpObserver discards events. It is the default wherever an observer is
// optional.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
