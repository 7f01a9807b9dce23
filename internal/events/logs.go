package events

import (
	"time"

	"github.com/smazurov/subjectlink/internal/logging"
)

// NewLogEntryEvent converts a buffered log entry for the bus.
func NewLogEntryEvent(entry logging.LogEntry) LogEntryEvent {
	return LogEntryEvent{
		Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
		Level:      entry.Level,
		Module:     entry.Module,
		Subject:    entry.Subject,
		Message:    entry.Message,
		Attributes: entry.Attributes,
	}
}

// ForwardLogs publishes every new log entry on bus. The returned function
// stops forwarding.
func ForwardLogs(bus *Bus) func() {
	logging.SetLogCallback(func(entry logging.LogEntry) {
		bus.Publish(NewLogEntryEvent(entry))
	})
	return func() { logging.SetLogCallback(nil) }
}
