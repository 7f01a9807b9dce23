package provider

import (
	"errors"
	"testing"
	"time"

	"github.com/smazurov/subjectlink/internal/livelink"
)

func cameraStatic() livelink.StaticData {
	sd := livelink.NewStaticData(livelink.RoleCamera)
	sd.Camera.CameraName = "Producer Perspective"
	sd.PropertyNames = []string{"zoom"}
	return sd
}

func TestMemory_StaticThenFrame(t *testing.T) {
	m := NewMemory()

	if err := m.UpdateSubjectStaticData("cam", livelink.RoleCamera, cameraStatic()); err != nil {
		t.Fatalf("static failed: %v", err)
	}
	frame := livelink.NewFrameData(livelink.RoleCamera, time.Now())
	frame.Camera.FocalLength = 35
	if err := m.UpdateSubjectFrameData("cam", frame); err != nil {
		t.Fatalf("frame failed: %v", err)
	}

	s, ok := m.Subject("cam")
	if !ok {
		t.Fatal("subject not recorded")
	}
	if s.Role != livelink.RoleCamera || s.StaticPushes != 1 || s.FramePushes != 1 {
		t.Errorf("subject = %+v", s)
	}
	if s.Static.Version == 0 {
		t.Error("static version not assigned")
	}
	if s.LastFrame == nil || s.LastFrame.StaticVersion != s.Static.Version {
		t.Errorf("frame not stamped with static version: %+v", s.LastFrame)
	}
	if s.LastFrame.Camera.FocalLength != 35 {
		t.Errorf("focal length = %v", s.LastFrame.Camera.FocalLength)
	}
}

func TestMemory_FrameWithoutStatic(t *testing.T) {
	m := NewMemory()
	err := m.UpdateSubjectFrameData("ghost", livelink.NewFrameData(livelink.RoleTransform, time.Now()))
	if !errors.Is(err, livelink.ErrSubjectNotRegistered) {
		t.Fatalf("error = %v, want ErrSubjectNotRegistered", err)
	}
	if len(m.Subjects()) != 0 {
		t.Error("rejected frame created a subject")
	}
}

func TestMemory_RemoveIsIdempotent(t *testing.T) {
	m := NewMemory()
	if err := m.UpdateSubjectStaticData("cam", livelink.RoleCamera, cameraStatic()); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if err := m.RemoveSubject("cam"); err != nil {
			t.Fatal(err)
		}
	}
	if m.Removed() != 1 {
		t.Errorf("Removed = %d, want 1", m.Removed())
	}
	if _, ok := m.Subject("cam"); ok {
		t.Error("subject still present after removal")
	}
	err := m.UpdateSubjectFrameData("cam", livelink.NewFrameData(livelink.RoleCamera, time.Now()))
	if !errors.Is(err, livelink.ErrSubjectNotRegistered) {
		t.Errorf("frame after removal error = %v", err)
	}
}

func TestMemory_SnapshotsAreCopies(t *testing.T) {
	m := NewMemory()
	if err := m.UpdateSubjectStaticData("cam", livelink.RoleCamera, cameraStatic()); err != nil {
		t.Fatal(err)
	}
	s, _ := m.Subject("cam")
	s.Static.Camera.CameraName = "mutated"
	s.Static.PropertyNames[0] = "mutated"

	again, _ := m.Subject("cam")
	if again.Static.Camera.CameraName != "Producer Perspective" || again.Static.PropertyNames[0] != "zoom" {
		t.Errorf("snapshot mutation leaked: %+v", again.Static)
	}
}

func TestMemory_SubjectsSorted(t *testing.T) {
	m := NewMemory()
	for _, name := range []livelink.SubjectName{"b", "c", "a"} {
		if err := m.UpdateSubjectStaticData(name, livelink.RoleTransform, livelink.NewStaticData(livelink.RoleTransform)); err != nil {
			t.Fatal(err)
		}
	}
	got := m.Subjects()
	if len(got) != 3 || got[0].Name != "a" || got[1].Name != "b" || got[2].Name != "c" {
		t.Errorf("Subjects = %+v", got)
	}
}

func TestMemory_EmptyName(t *testing.T) {
	m := NewMemory()
	err := m.UpdateSubjectStaticData("", livelink.RoleCamera, cameraStatic())
	if !errors.Is(err, livelink.ErrEmptySubjectName) {
		t.Errorf("error = %v, want ErrEmptySubjectName", err)
	}
}
