package provider

import (
	"time"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/metrics"
)

// Instrumented counts pushes and failures of the wrapped provider.
type Instrumented struct {
	name  string
	inner livelink.Provider
	now   func() time.Time
}

var _ livelink.Provider = (*Instrumented)(nil)

// Instrument wraps inner; name is the provider label on every metric.
func Instrument(name string, inner livelink.Provider) *Instrumented {
	return &Instrumented{name: name, inner: inner, now: time.Now}
}

// UpdateSubjectStaticData forwards and counts.
func (i *Instrumented) UpdateSubjectStaticData(name livelink.SubjectName, role livelink.Role, data livelink.StaticData) error {
	if err := i.inner.UpdateSubjectStaticData(name, role, data); err != nil {
		metrics.IncProviderError(i.name, "static")
		return err
	}
	metrics.IncStaticPush(i.name, string(name))
	return nil
}

// UpdateSubjectFrameData forwards and counts.
func (i *Instrumented) UpdateSubjectFrameData(name livelink.SubjectName, data livelink.FrameData) error {
	if err := i.inner.UpdateSubjectFrameData(name, data); err != nil {
		metrics.IncProviderError(i.name, "frame")
		return err
	}
	metrics.IncFramePush(i.name, string(name), i.now())
	return nil
}

// RemoveSubject forwards and counts.
func (i *Instrumented) RemoveSubject(name livelink.SubjectName) error {
	if err := i.inner.RemoveSubject(name); err != nil {
		metrics.IncProviderError(i.name, "remove")
		return err
	}
	metrics.IncRemoval(i.name, string(name))
	return nil
}
