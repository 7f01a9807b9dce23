package session

import (
	"fmt"
	"time"

	"github.com/smazurov/subjectlink/internal/events"
	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/streamobject"
)

// Info is a snapshot of one stream object.
type Info struct {
	Name           livelink.SubjectName
	Kind           streamobject.Kind
	Target         string
	Root           string
	Active         bool
	SendAnimatable bool
	Mode           int
	StreamOptions  string
	ShowInUI       bool
	Valid          bool
	Managed        bool
}

type targeted interface {
	Target() string
}

func describe(e *entry) Info {
	obj := e.obj
	info := Info{
		Name:           obj.SubjectName(),
		Kind:           streamobject.KindOf(obj),
		Root:           obj.RootName(),
		Active:         obj.ActiveStatus(),
		SendAnimatable: obj.SendAnimatableStatus(),
		Mode:           obj.StreamingMode(),
		StreamOptions:  obj.StreamOptions(),
		ShowInUI:       obj.ShouldShowInUI(),
		Valid:          obj.IsValid(),
		Managed:        e.spec != nil,
	}
	if t, ok := obj.(targeted); ok {
		info.Target = t.Target()
	}
	return info
}

// SubjectUpdate changes the configuration of one object. Nil fields are
// left unchanged.
type SubjectUpdate struct {
	Name           *livelink.SubjectName
	Mode           *int
	SendAnimatable *bool
	Active         *bool
}

// Update applies u to the named object and returns its new snapshot. The
// object's own rules apply, so fixed properties stay unchanged without error.
func (s *Session) Update(name livelink.SubjectName, u SubjectUpdate) (Info, error) {
	var info Info
	err := s.do(func() error {
		e, ok := s.entries[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrSubjectNotFound, name)
		}
		if err := s.applyLocked(e, u); err != nil {
			return err
		}
		info = describe(e)
		s.publishUpdated(info, name)
		return nil
	})
	return info, err
}

// applyLocked checks u before touching the object, so a rejected update
// leaves the object unchanged. The entry's spec follows whatever the object
// accepted, including on a later provider error.
func (s *Session) applyLocked(e *entry, u SubjectUpdate) error {
	obj := e.obj
	old := obj.SubjectName()

	renaming := u.Name != nil && *u.Name != old
	if renaming {
		if _, taken := s.entries[*u.Name]; taken {
			return fmt.Errorf("%w: %s", ErrDuplicateSubject, *u.Name)
		}
	}
	if u.Mode != nil && !streamobject.AcceptsMode(obj, *u.Mode) {
		return fmt.Errorf("failed to change mode of %s: %w", old, streamobject.ErrUnsupportedMode)
	}

	defer syncSpec(e)

	if renaming {
		err := obj.UpdateSubjectName(*u.Name)
		s.rekeyLocked(old, obj.SubjectName())
		if err != nil {
			return fmt.Errorf("failed to rename subject %s: %w", old, err)
		}
	}
	if u.Mode != nil {
		if err := obj.UpdateStreamingMode(*u.Mode); err != nil {
			return fmt.Errorf("failed to change mode of %s: %w", obj.SubjectName(), err)
		}
	}
	if u.SendAnimatable != nil {
		if err := obj.UpdateSendAnimatableStatus(*u.SendAnimatable); err != nil {
			return fmt.Errorf("failed to change send_animatable of %s: %w", obj.SubjectName(), err)
		}
	}
	if u.Active != nil {
		obj.UpdateActiveStatus(*u.Active)
	}
	return nil
}

// syncSpec copies the object's configuration into a managed entry's spec.
func syncSpec(e *entry) {
	if e.spec == nil {
		return
	}
	obj := e.obj
	e.spec.Name = string(obj.SubjectName())
	e.spec.Mode = obj.StreamingMode()
	e.spec.SendAnimatable = obj.SendAnimatableStatus()
	active := obj.ActiveStatus()
	e.spec.Active = &active
}

// rekeyLocked moves an entry after its object accepted a new name.
func (s *Session) rekeyLocked(old, name livelink.SubjectName) {
	if old == name {
		return
	}
	e := s.entries[old]
	delete(s.entries, old)
	s.entries[name] = e
	for i, n := range s.order {
		if n == old {
			s.order[i] = name
		}
	}
}

func (s *Session) publishUpdated(info Info, previous livelink.SubjectName) {
	if s.cfg.Bus == nil {
		return
	}
	ev := events.SubjectUpdatedEvent{
		Subject:        string(info.Name),
		Active:         info.Active,
		SendAnimatable: info.SendAnimatable,
		Mode:           info.Mode,
		Timestamp:      s.cfg.Now().Format(time.RFC3339),
	}
	if previous != info.Name {
		ev.Previous = string(previous)
	}
	s.cfg.Bus.Publish(ev)
}
