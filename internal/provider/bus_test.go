package provider

import (
	"errors"
	"testing"
	"time"

	"github.com/smazurov/subjectlink/internal/events"
	"github.com/smazurov/subjectlink/internal/livelink"
)

func TestBus_PublishesSubjectEvents(t *testing.T) {
	bus := events.New()
	statics := make(chan events.SubjectStaticEvent, 1)
	frames := make(chan events.SubjectFrameEvent, 1)
	removed := make(chan events.SubjectRemovedEvent, 2)

	defer bus.Subscribe(func(e events.SubjectStaticEvent) { statics <- e })()
	defer bus.Subscribe(func(e events.SubjectFrameEvent) { frames <- e })()
	defer bus.Subscribe(func(e events.SubjectRemovedEvent) { removed <- e })()

	p := NewBus(bus)
	if err := p.UpdateSubjectStaticData("cam", livelink.RoleCamera, cameraStatic()); err != nil {
		t.Fatal(err)
	}
	if err := p.UpdateSubjectFrameData("cam", livelink.NewFrameData(livelink.RoleCamera, time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := p.RemoveSubject("cam"); err != nil {
		t.Fatal(err)
	}
	if err := p.RemoveSubject("cam"); err != nil {
		t.Fatal(err)
	}

	var static events.SubjectStaticEvent
	select {
	case static = <-statics:
	case <-time.After(time.Second):
		t.Fatal("no static event")
	}
	if static.Subject != "cam" || static.Data.Version == 0 {
		t.Errorf("static event = %+v", static)
	}

	select {
	case frame := <-frames:
		if frame.Data.StaticVersion != static.Data.Version {
			t.Errorf("frame static version = %d, want %d", frame.Data.StaticVersion, static.Data.Version)
		}
	case <-time.After(time.Second):
		t.Fatal("no frame event")
	}

	select {
	case <-removed:
	case <-time.After(time.Second):
		t.Fatal("no removed event")
	}
	select {
	case <-removed:
		t.Fatal("removing an unknown subject published an event")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBus_FrameWithoutStatic(t *testing.T) {
	p := NewBus(events.New())
	err := p.UpdateSubjectFrameData("cam", livelink.NewFrameData(livelink.RoleCamera, time.Now()))
	if !errors.Is(err, livelink.ErrSubjectNotRegistered) {
		t.Errorf("error = %v", err)
	}
}
