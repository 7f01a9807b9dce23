package streamobject

import (
	"errors"

	"github.com/smazurov/subjectlink/internal/livelink"
)

type staticPush struct {
	name livelink.SubjectName
	role livelink.Role
	data livelink.StaticData
}

type framePush struct {
	name livelink.SubjectName
	data livelink.FrameData
}

// recordingProvider records every call in order.
type recordingProvider struct {
	statics  []staticPush
	frames   []framePush
	removals []livelink.SubjectName
	calls    []string
	err      error
}

func (p *recordingProvider) UpdateSubjectStaticData(name livelink.SubjectName, role livelink.Role, data livelink.StaticData) error {
	p.calls = append(p.calls, "static")
	if p.err != nil {
		return p.err
	}
	p.statics = append(p.statics, staticPush{name: name, role: role, data: data})
	return nil
}

func (p *recordingProvider) UpdateSubjectFrameData(name livelink.SubjectName, data livelink.FrameData) error {
	p.calls = append(p.calls, "frame")
	if p.err != nil {
		return p.err
	}
	p.frames = append(p.frames, framePush{name: name, data: data})
	return nil
}

func (p *recordingProvider) RemoveSubject(name livelink.SubjectName) error {
	p.calls = append(p.calls, "remove")
	p.removals = append(p.removals, name)
	return nil
}

var errProviderDown = errors.New("provider down")
