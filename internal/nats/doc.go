// Package nats streams subjects over NATS so consumers in other processes
// can mirror them.
//
// # Architecture
//
//   - Server: Embedded NATS server running in the main process (subjectlink serve)
//   - Publisher: livelink.Provider that publishes subject records
//   - Mirror: Subscribes to the subject hierarchy and replays it into a local provider
//
// # Subject Hierarchy
//
//	subjectlink.subjects.{subject}.static    # Static data (publisher → consumers)
//	subjectlink.subjects.{subject}.frame     # Frame data (publisher → consumers)
//	subjectlink.subjects.{subject}.removed   # Subject removed (publisher → consumers)
//	subjectlink.control.resync               # Resend static data (consumer → publishers)
//
// Subject names are percent-escaped into a single token, so
// "Camera.001" travels as "Camera%2E001".
//
// The package uses fire-and-forget messaging (core NATS, no JetStream).
// Publishers keep working offline when NATS is unavailable and resend static
// data once reconnected.
//
// # Useful Debug Commands
//
// Monitor all subject traffic:
//
//	nats sub "subjectlink.subjects.>"
//
// Monitor frames of the editor camera:
//
//	nats sub "subjectlink.subjects.EditorActiveCamera.frame"
//
// Ask every publisher to resend static data:
//
//	nats pub "subjectlink.control.resync" '{"action":"resync","timestamp":"2024-01-01T00:00:00Z","reason":"manual_debug"}'
//
// # Message Formats
//
// StaticMessage (subjectlink.subjects.{subject}.static):
//
//	{
//	  "source": "5f0c...",
//	  "subject": "EditorActiveCamera",
//	  "role": "camera",
//	  "timestamp": "2024-01-01T12:00:00Z",
//	  "data": {"version": 1, "role": "camera", "transform": {...}, "camera": {...}}
//	}
//
// FrameMessage (subjectlink.subjects.{subject}.frame):
//
//	{
//	  "source": "5f0c...",
//	  "subject": "EditorActiveCamera",
//	  "timestamp": "2024-01-01T12:00:00Z",
//	  "data": {"static_version": 1, "world_time": "2024-01-01T12:00:00Z", "transform": {...}, "camera": {...}}
//	}
//
// RemovedMessage (subjectlink.subjects.{subject}.removed):
//
//	{
//	  "source": "5f0c...",
//	  "subject": "EditorActiveCamera",
//	  "timestamp": "2024-01-01T12:00:00Z"
//	}
package nats
