package events

import "github.com/smazurov/subjectlink/internal/livelink"

// Event type constants for kelindar/event.
const (
	TypeSubjectStatic uint32 = iota + 1
	TypeSubjectFrame
	TypeSubjectRemoved
	TypeSubjectUpdated
	TypeCameraChanged
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// SubjectStaticEvent is published when a provider accepts static data.
type SubjectStaticEvent struct {
	Subject   string              `json:"subject" example:"EditorActiveCamera" doc:"Subject name"`
	Role      livelink.Role       `json:"role" example:"camera" doc:"Declared subject role"`
	Data      livelink.StaticData `json:"data" doc:"Static data record"`
	Timestamp string              `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SubjectStaticEvent.
func (e SubjectStaticEvent) Type() uint32 { return TypeSubjectStatic }

// SubjectFrameEvent is published when a provider accepts frame data.
type SubjectFrameEvent struct {
	Subject   string             `json:"subject" example:"EditorActiveCamera" doc:"Subject name"`
	Data      livelink.FrameData `json:"data" doc:"Frame data record"`
	Timestamp string             `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SubjectFrameEvent.
func (e SubjectFrameEvent) Type() uint32 { return TypeSubjectFrame }

// SubjectRemovedEvent is published when a subject is unregistered.
type SubjectRemovedEvent struct {
	Subject   string `json:"subject" example:"EditorActiveCamera" doc:"Subject name"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SubjectRemovedEvent.
func (e SubjectRemovedEvent) Type() uint32 { return TypeSubjectRemoved }

// SubjectUpdatedEvent is published when a stream object's configuration
// changes through the session.
type SubjectUpdatedEvent struct {
	Subject        string `json:"subject" example:"EditorActiveCamera" doc:"Subject name after the update"`
	Previous       string `json:"previous,omitempty" example:"cam" doc:"Subject name before a rename"`
	Active         bool   `json:"active" example:"true" doc:"Whether frames are sent"`
	SendAnimatable bool   `json:"send_animatable" example:"false" doc:"Whether animatable properties are sent"`
	Mode           int    `json:"mode" example:"0" doc:"Streaming mode"`
	Timestamp      string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SubjectUpdatedEvent.
func (e SubjectUpdatedEvent) Type() uint32 { return TypeSubjectUpdated }

// CameraChangedEvent is published when the viewport switches camera.
type CameraChangedEvent struct {
	Camera    string `json:"camera" example:"Producer Perspective" doc:"New current camera"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CameraChangedEvent.
func (e CameraChangedEvent) Type() uint32 { return TypeCameraChanged }

// LogEntryEvent carries one log record to log stream subscribers.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2026-01-27T10:30:00.123Z" doc:"Record timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"session" doc:"Module that logged the record"`
	Subject    string         `json:"subject,omitempty" example:"EditorActiveCamera" doc:"Subject the record is about"`
	Message    string         `json:"message" example:"subject registered" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
