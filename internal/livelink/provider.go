package livelink

// Provider is the publish endpoint subjects are registered with and pushed
// through. Calls are synchronous and safe when no consumer is connected.
type Provider interface {
	UpdateSubjectStaticData(name SubjectName, role Role, data StaticData) error
	UpdateSubjectFrameData(name SubjectName, data FrameData) error
	RemoveSubject(name SubjectName) error
}
