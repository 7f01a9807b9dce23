// Package livelink defines the subject data model published to a streaming
// provider and the Provider contract every publisher satisfies.
//
// # Subjects
//
// A subject is a named, independently addressable stream. A subject first
// receives a StaticData record declaring its Role and shape, then any number
// of FrameData records carrying per-tick values:
//
//	provider.UpdateSubjectStaticData("EditorActiveCamera", livelink.RoleCamera, static)
//	provider.UpdateSubjectFrameData("EditorActiveCamera", frame)
//	provider.RemoveSubject("EditorActiveCamera")
//
// Providers reject frame data for a subject that has no static data with
// ErrSubjectNotRegistered.
package livelink
