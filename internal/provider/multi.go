package provider

import (
	"errors"

	"github.com/smazurov/subjectlink/internal/livelink"
)

// Multi forwards every call to each provider in order. A failing provider
// does not stop the others; errors are joined.
type Multi struct {
	providers []livelink.Provider
}

var _ livelink.Provider = (*Multi)(nil)

// NewMulti fans out to providers. Nil entries are skipped.
func NewMulti(providers ...livelink.Provider) *Multi {
	m := &Multi{}
	for _, p := range providers {
		if p != nil {
			m.providers = append(m.providers, p)
		}
	}
	return m
}

// UpdateSubjectStaticData forwards to every provider.
func (m *Multi) UpdateSubjectStaticData(name livelink.SubjectName, role livelink.Role, data livelink.StaticData) error {
	var errs []error
	for _, p := range m.providers {
		if err := p.UpdateSubjectStaticData(name, role, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UpdateSubjectFrameData forwards to every provider.
func (m *Multi) UpdateSubjectFrameData(name livelink.SubjectName, data livelink.FrameData) error {
	var errs []error
	for _, p := range m.providers {
		if err := p.UpdateSubjectFrameData(name, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveSubject forwards to every provider.
func (m *Multi) RemoveSubject(name livelink.SubjectName) error {
	var errs []error
	for _, p := range m.providers {
		if err := p.RemoveSubject(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
