package provider

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/smazurov/subjectlink/internal/livelink"
)

// Subject is the recorded state of one subject.
type Subject struct {
	Name         livelink.SubjectName
	Role         livelink.Role
	Static       livelink.StaticData
	LastFrame    *livelink.FrameData
	StaticPushes uint64
	FramePushes  uint64
	UpdatedAt    time.Time
}

// Memory keeps the latest static and frame record of every subject.
type Memory struct {
	mu       sync.RWMutex
	subjects map[livelink.SubjectName]*Subject
	versions *livelink.Versions
	removed  uint64
	now      func() time.Time
}

var _ livelink.Provider = (*Memory)(nil)

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{
		subjects: make(map[livelink.SubjectName]*Subject),
		versions: livelink.NewVersions(),
		now:      time.Now,
	}
}

// UpdateSubjectStaticData records data and registers name.
func (m *Memory) UpdateSubjectStaticData(name livelink.SubjectName, role livelink.Role, data livelink.StaticData) error {
	version, err := m.versions.Static(name)
	if err != nil {
		return err
	}
	data.Version = version
	data.Role = role

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subjects[name]
	if !ok {
		s = &Subject{Name: name}
		m.subjects[name] = s
	}
	s.Role = role
	s.Static = data
	s.LastFrame = nil
	s.StaticPushes++
	s.UpdatedAt = m.now()
	return nil
}

// UpdateSubjectFrameData records data for a registered subject.
func (m *Memory) UpdateSubjectFrameData(name livelink.SubjectName, data livelink.FrameData) error {
	version, err := m.versions.Frame(name)
	if err != nil {
		return err
	}
	data.StaticVersion = version

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subjects[name]
	if !ok {
		return livelink.ErrSubjectNotRegistered
	}
	s.LastFrame = &data
	s.FramePushes++
	s.UpdatedAt = m.now()
	return nil
}

// RemoveSubject forgets name. Removing an unknown subject is a no-op.
func (m *Memory) RemoveSubject(name livelink.SubjectName) error {
	m.versions.Remove(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[name]; ok {
		delete(m.subjects, name)
		m.removed++
	}
	return nil
}

// Subject returns a copy of the named subject.
func (m *Memory) Subject(name livelink.SubjectName) (Subject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subjects[name]
	if !ok {
		return Subject{}, false
	}
	return copySubject(s), true
}

// Subjects returns copies of all subjects sorted by name.
func (m *Memory) Subjects() []Subject {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		out = append(out, copySubject(s))
	}
	slices.SortFunc(out, func(a, b Subject) int {
		return strings.Compare(string(a.Name), string(b.Name))
	})
	return out
}

// Removed returns how many registered subjects were removed.
func (m *Memory) Removed() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.removed
}

func copySubject(s *Subject) Subject {
	out := *s
	out.Static.PropertyNames = slices.Clone(s.Static.PropertyNames)
	if s.Static.Camera != nil {
		cam := *s.Static.Camera
		out.Static.Camera = &cam
	}
	if s.LastFrame != nil {
		frame := *s.LastFrame
		frame.PropertyValues = slices.Clone(s.LastFrame.PropertyValues)
		if s.LastFrame.Camera != nil {
			cam := *s.LastFrame.Camera
			frame.Camera = &cam
		}
		out.LastFrame = &frame
	}
	return out
}
