package livelink

import (
	"errors"
	"testing"
)

func TestVersions_FrameRequiresStatic(t *testing.T) {
	v := NewVersions()

	if _, err := v.Frame("cam"); !errors.Is(err, ErrSubjectNotRegistered) {
		t.Fatalf("Frame before Static error = %v", err)
	}

	first, err := v.Static("cam")
	if err != nil {
		t.Fatal(err)
	}
	got, err := v.Frame("cam")
	if err != nil {
		t.Fatal(err)
	}
	if got != first {
		t.Errorf("frame version = %d, want %d", got, first)
	}

	second, _ := v.Static("cam")
	if second <= first {
		t.Errorf("versions not increasing: %d then %d", first, second)
	}
}

func TestVersions_RemoveAndReregister(t *testing.T) {
	v := NewVersions()
	first, _ := v.Static("cam")

	if !v.Remove("cam") {
		t.Error("Remove should report a registered subject")
	}
	if v.Remove("cam") {
		t.Error("second Remove should report false")
	}
	if _, err := v.Frame("cam"); !errors.Is(err, ErrSubjectNotRegistered) {
		t.Errorf("Frame after Remove error = %v", err)
	}

	again, _ := v.Static("cam")
	if again == first {
		t.Error("re-registered subject reused its old version")
	}
}

func TestVersions_EmptyName(t *testing.T) {
	v := NewVersions()
	if _, err := v.Static(""); !errors.Is(err, ErrEmptySubjectName) {
		t.Errorf("Static(\"\") error = %v", err)
	}
	if _, err := v.Frame(""); !errors.Is(err, ErrEmptySubjectName) {
		t.Errorf("Frame(\"\") error = %v", err)
	}
}
