// Package provider contains livelink.Provider implementations that do not
// need a network transport: an in-memory subject table, an event bus
// publisher, and decorators for fan-out and metrics.
//
// A typical serve setup fans out to the in-memory table (for the HTTP API),
// the event bus (for SSE) and the NATS publisher, wrapped for metrics:
//
//	p := provider.Instrument("multi", provider.NewMulti(memory, bus, natsPublisher))
package provider
