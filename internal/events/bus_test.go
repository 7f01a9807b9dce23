package events

import (
	"testing"
	"time"

	"github.com/smazurov/subjectlink/internal/livelink"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan SubjectStaticEvent, 1)

	unsub := bus.Subscribe(func(e SubjectStaticEvent) {
		received <- e
	})
	defer unsub()

	ev := SubjectStaticEvent{
		Subject:   "EditorActiveCamera",
		Role:      livelink.RoleCamera,
		Timestamp: "2026-01-27T10:30:00Z",
	}
	bus.Publish(ev)

	select {
	case got := <-received:
		if got.Subject != ev.Subject || got.Role != ev.Role {
			t.Errorf("got %+v, want %+v", got, ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := New()
	received1 := make(chan SubjectRemovedEvent, 1)
	received2 := make(chan SubjectRemovedEvent, 1)

	unsub1 := bus.Subscribe(func(e SubjectRemovedEvent) { received1 <- e })
	defer unsub1()
	unsub2 := bus.Subscribe(func(e SubjectRemovedEvent) { received2 <- e })
	defer unsub2()

	bus.Publish(SubjectRemovedEvent{Subject: "cam"})

	for i, ch := range []chan SubjectRemovedEvent{received1, received2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive the event", i+1)
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan SubjectFrameEvent, 1)

	unsub := bus.Subscribe(func(e SubjectFrameEvent) { received <- e })

	bus.Publish(SubjectFrameEvent{Subject: "a"})
	<-received

	unsub()

	bus.Publish(SubjectFrameEvent{Subject: "b"})
	select {
	case <-received:
		t.Fatal("received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()
	frames := make(chan bool, 1)
	updates := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ SubjectFrameEvent) { frames <- true })
	defer unsub1()
	unsub2 := bus.Subscribe(func(_ SubjectUpdatedEvent) { updates <- true })
	defer unsub2()

	bus.Publish(SubjectFrameEvent{Subject: "cam"})
	<-frames

	select {
	case <-updates:
		t.Fatal("update subscriber received a frame event")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	unsub()
}

func TestSubscribeToChannel_Filter(t *testing.T) {
	bus := New()
	ch := make(chan any, 4)

	unsub := SubscribeToChannel(bus, ch, func(e SubjectFrameEvent) bool {
		return e.Subject == "keep"
	})
	defer unsub()

	bus.Publish(SubjectFrameEvent{Subject: "drop"})
	bus.Publish(SubjectFrameEvent{Subject: "keep"})

	select {
	case ev := <-ch:
		if got := ev.(SubjectFrameEvent).Subject; got != "keep" {
			t.Errorf("forwarded %q, want keep", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for filtered event")
	}

	select {
	case ev := <-ch:
		t.Fatalf("unexpected extra event %+v", ev)
	case <-time.After(10 * time.Millisecond):
	}
}
