package provider

import (
	"time"

	"github.com/smazurov/subjectlink/internal/events"
	"github.com/smazurov/subjectlink/internal/livelink"
)

// Bus republishes provider traffic as events on an in-process bus.
type Bus struct {
	bus      *events.Bus
	versions *livelink.Versions
	now      func() time.Time
}

var _ livelink.Provider = (*Bus)(nil)

// NewBus creates a provider publishing to bus.
func NewBus(bus *events.Bus) *Bus {
	return &Bus{
		bus:      bus,
		versions: livelink.NewVersions(),
		now:      time.Now,
	}
}

// UpdateSubjectStaticData publishes a SubjectStaticEvent.
func (b *Bus) UpdateSubjectStaticData(name livelink.SubjectName, role livelink.Role, data livelink.StaticData) error {
	version, err := b.versions.Static(name)
	if err != nil {
		return err
	}
	data.Version = version
	data.Role = role
	b.bus.Publish(events.SubjectStaticEvent{
		Subject:   string(name),
		Role:      role,
		Data:      data,
		Timestamp: b.now().Format(time.RFC3339),
	})
	return nil
}

// UpdateSubjectFrameData publishes a SubjectFrameEvent.
func (b *Bus) UpdateSubjectFrameData(name livelink.SubjectName, data livelink.FrameData) error {
	version, err := b.versions.Frame(name)
	if err != nil {
		return err
	}
	data.StaticVersion = version
	b.bus.Publish(events.SubjectFrameEvent{
		Subject:   string(name),
		Data:      data,
		Timestamp: b.now().Format(time.RFC3339),
	})
	return nil
}

// RemoveSubject publishes a SubjectRemovedEvent for registered subjects.
func (b *Bus) RemoveSubject(name livelink.SubjectName) error {
	if !b.versions.Remove(name) {
		return nil
	}
	b.bus.Publish(events.SubjectRemovedEvent{
		Subject:   string(name),
		Timestamp: b.now().Format(time.RFC3339),
	})
	return nil
}
