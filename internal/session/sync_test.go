package session

import (
	"errors"
	"slices"
	"testing"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/streamobject"
)

func boolPtr(b bool) *bool { return &b }

func names(infos []Info) []livelink.SubjectName {
	out := make([]livelink.SubjectName, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.Name)
	}
	return out
}

func TestSync(t *testing.T) {
	f := newFixture(t)
	manual := &stubObject{name: "Manual", valid: true}
	_ = f.session.Add(manual)

	initial := []streamobject.Spec{
		{Kind: streamobject.KindActiveCamera},
		{Kind: streamobject.KindCamera, Target: "Witness"},
		{Kind: streamobject.KindModel, Name: "PropSubject", Target: "Prop"},
	}
	res, err := f.session.Sync(initial)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(res.Created) != 3 {
		t.Errorf("Created = %v, want 3 subjects", res.Created)
	}

	want := []livelink.SubjectName{"Manual", streamobject.ActiveCameraSubject, "Witness", "PropSubject"}
	if got := names(f.session.List()); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	// Witness is retargeted, PropSubject becomes inactive, the active camera
	// is dropped.
	next := []streamobject.Spec{
		{Kind: streamobject.KindCamera, Name: "Witness", Target: "Producer Perspective"},
		{Kind: streamobject.KindModel, Name: "PropSubject", Target: "Prop", Active: boolPtr(false)},
	}
	res, err = f.session.Sync(next)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if !slices.Equal(res.Updated, []livelink.SubjectName{"PropSubject"}) {
		t.Errorf("Updated = %v", res.Updated)
	}
	if !slices.Contains(res.Removed, streamobject.ActiveCameraSubject) || !slices.Contains(res.Removed, "Witness") {
		t.Errorf("Removed = %v", res.Removed)
	}
	if !slices.Equal(res.Created, []livelink.SubjectName{"Witness"}) {
		t.Errorf("Created = %v", res.Created)
	}

	info, err := f.session.Get("Witness")
	if err != nil || info.Target != "Producer Perspective" {
		t.Errorf("retargeted Witness = %+v, %v", info, err)
	}
	info, _ = f.session.Get("PropSubject")
	if info.Active {
		t.Error("PropSubject should be inactive")
	}
	if _, ok := f.memory.Subject(streamobject.ActiveCameraSubject); ok {
		t.Error("dropped active camera should be removed from the provider")
	}
	if manual.closed != 0 {
		t.Error("Sync must not touch objects added directly")
	}

	// Re-applying the same specs is a no-op.
	res, err = f.session.Sync(next)
	if err != nil || len(res.Created)+len(res.Updated)+len(res.Removed) != 0 {
		t.Errorf("idempotent Sync = %+v, %v", res, err)
	}
}

func TestSyncReportsErrors(t *testing.T) {
	f := newFixture(t)
	_ = f.session.Add(&stubObject{name: "Manual", valid: true})

	specs := []streamobject.Spec{
		{Kind: "light", Target: "Key"},
		{Kind: streamobject.KindModel, Target: "Prop"},
		{Kind: streamobject.KindModel, Target: "Prop"},
		{Kind: streamobject.KindModel, Name: "Manual", Target: "Prop"},
	}
	res, err := f.session.Sync(specs)
	if err == nil {
		t.Fatal("Sync should report invalid specs")
	}
	if !errors.Is(err, streamobject.ErrUnknownKind) {
		t.Errorf("error %v should wrap ErrUnknownKind", err)
	}
	if !errors.Is(err, ErrDuplicateSubject) {
		t.Errorf("error %v should wrap ErrDuplicateSubject", err)
	}
	if !slices.Equal(res.Created, []livelink.SubjectName{"Prop"}) {
		t.Errorf("valid spec should still be created, got %v", res.Created)
	}
}
