package livelink

import "sync"

// Versions assigns static data versions and tracks which subjects are
// registered. The counter is shared by all subjects so a re-registered
// subject never reuses a version.
type Versions struct {
	mu       sync.Mutex
	next     uint64
	subjects map[SubjectName]uint64
}

// NewVersions creates an empty tracker.
func NewVersions() *Versions {
	return &Versions{subjects: make(map[SubjectName]uint64)}
}

// Static registers name and returns its new static version.
func (v *Versions) Static(name SubjectName) (uint64, error) {
	if name == "" {
		return 0, ErrEmptySubjectName
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.next++
	v.subjects[name] = v.next
	return v.next, nil
}

// Frame returns the static version frames of name belong to.
func (v *Versions) Frame(name SubjectName) (uint64, error) {
	if name == "" {
		return 0, ErrEmptySubjectName
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	version, ok := v.subjects[name]
	if !ok {
		return 0, ErrSubjectNotRegistered
	}
	return version, nil
}

// Remove unregisters name and reports whether it was registered.
func (v *Versions) Remove(name SubjectName) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.subjects[name]
	delete(v.subjects, name)
	return ok
}
