package form

import (
	"context"
	"log/slog"
)

// EventKind names a lifecycle step reported to observers.
type EventKind string

const (
	EventMount        EventKind = "mount"
	EventChange       EventKind = "change"
	EventSubmit       EventKind = "submit"
	EventReset        EventKind = "reset"
	EventClose        EventKind = "close"
	EventUnknownField EventKind = "unknown_field"
	EventSubscribe    EventKind = "subscribe"
	EventUnsubscribe  EventKind = "unsubscribe"
)

// Event describes one step in a form's lifecycle. Values are never included
// so observers cannot leak secrets typed into password fields.
type Event struct {
	Kind    EventKind
	FormID  string
	Schema  string
	Field   string
	Valid   bool
	Message string
	// Invalid counts invalid fields on submit events.
	Invalid int
}

// Observer receives lifecycle events. A nil Observer disables reporting.
type Observer func(Event)

// Chain fans events out to every non-nil observer in order.
func Chain(observers ...Observer) Observer {
	var active []Observer
	for _, obs := range observers {
		if obs != nil {
			active = append(active, obs)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	default:
		return func(evt Event) {
			for _, obs := range active {
				obs(evt)
			}
		}
	}
}

// LogObserver writes events to logger. Changes and subscriptions log at
// debug, unknown fields at warn, everything else at info.
func LogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return nil
	}
	return func(evt Event) {
		attrs := []slog.Attr{
			slog.String("form_id", evt.FormID),
		}
		if evt.Schema != "" {
			attrs = append(attrs, slog.String("schema", evt.Schema))
		}
		if evt.Field != "" {
			attrs = append(attrs, slog.String("field", evt.Field))
		}

		level := slog.LevelInfo
		switch evt.Kind {
		case EventChange:
			level = slog.LevelDebug
			attrs = append(attrs, slog.Bool("valid", evt.Valid))
			if evt.Message != "" {
				attrs = append(attrs, slog.String("error", evt.Message))
			}
		case EventSubscribe, EventUnsubscribe:
			level = slog.LevelDebug
		case EventUnknownField:
			level = slog.LevelWarn
		case EventSubmit:
			attrs = append(attrs, slog.Bool("valid", evt.Valid), slog.Int("invalid_fields", evt.Invalid))
		}
		logger.LogAttrs(context.Background(), level, "form "+string(evt.Kind), attrs...)
	}
}
