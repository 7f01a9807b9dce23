package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
// Usage: bus.Publish(SubjectRemovedEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case SubjectStaticEvent:
		event.Publish(b.dispatcher, e)
	case SubjectFrameEvent:
		event.Publish(b.dispatcher, e)
	case SubjectRemovedEvent:
		event.Publish(b.dispatcher, e)
	case SubjectUpdatedEvent:
		event.Publish(b.dispatcher, e)
	case CameraChangedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function.
// The handler type determines which events it receives.
// Returns an unsubscribe function; unknown handler types get a no-op.
// Usage: unsub := bus.Subscribe(func(e SubjectFrameEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(SubjectStaticEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SubjectFrameEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SubjectRemovedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SubjectUpdatedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CameraChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
