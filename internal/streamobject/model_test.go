package streamobject

import (
	"testing"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/scene"
)

func TestModel_WorldAndLocalSpace(t *testing.T) {
	s := newTestScene(t)
	p := &recordingProvider{}
	obj, err := NewModel(p, s, "", "Prop", ModeWorldSpace)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	if p.statics[0].role != livelink.RoleTransform {
		t.Errorf("role = %q, want transform", p.statics[0].role)
	}

	if err := obj.UpdateSubjectFrame(); err != nil {
		t.Fatal(err)
	}
	if got := p.frames[0].data.Transform.Location.X; got != 11 {
		t.Errorf("world X = %v, want 11", got)
	}

	if err := obj.UpdateStreamingMode(ModeLocalSpace); err != nil {
		t.Fatal(err)
	}
	if len(p.statics) != 1 {
		t.Error("mode change should not refresh a model")
	}
	if err := obj.UpdateSubjectFrame(); err != nil {
		t.Fatal(err)
	}
	if got := p.frames[1].data.Transform.Location.X; got != 1 {
		t.Errorf("local X = %v, want 1", got)
	}
}

func TestModel_Hierarchy(t *testing.T) {
	s := newTestScene(t)
	obj, err := NewModel(&recordingProvider{}, s, "prop", "Prop", ModeWorldSpace)
	if err != nil {
		t.Fatal(err)
	}
	if obj.RootName() != "Rig" {
		t.Errorf("RootName = %q, want Rig", obj.RootName())
	}
	if m := obj.ModelPointer(); m == nil || m.Name != "Prop" {
		t.Errorf("ModelPointer = %+v", m)
	}
	if !obj.ShouldShowInUI() {
		t.Error("models are user-visible")
	}
}

func TestModel_SendAnimatableProperties(t *testing.T) {
	s := newTestScene(t)
	p := &recordingProvider{}
	obj, err := NewModel(p, s, "", "Prop", ModeWorldSpace, WithSendAnimatable(true))
	if err != nil {
		t.Fatal(err)
	}
	if names := p.statics[0].data.PropertyNames; len(names) != 1 || names[0] != "weight" {
		t.Errorf("property names = %v", names)
	}
	if err := obj.UpdateSubjectFrame(); err != nil {
		t.Fatal(err)
	}
	if values := p.frames[0].data.PropertyValues; len(values) != 1 || values[0] != 0.5 {
		t.Errorf("property values = %v", values)
	}
}

func TestModel_NewPropertyRefreshesBeforeFrame(t *testing.T) {
	s := newTestScene(t)
	p := &recordingProvider{}
	obj, err := NewModel(p, s, "", "Prop", ModeWorldSpace, WithSendAnimatable(true))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.UpsertModel(scene.Model{Name: "Prop", Parent: "Rig", Local: livelink.IdentityTransform,
		Properties: map[string]float64{"weight": 0.5, "blend": 0.1}}); err != nil {
		t.Fatal(err)
	}
	if err := obj.UpdateSubjectFrame(); err != nil {
		t.Fatal(err)
	}

	if len(p.statics) != 2 {
		t.Fatalf("statics = %d, want a refresh before the frame", len(p.statics))
	}
	names := p.statics[1].data.PropertyNames
	if len(names) != 2 || names[0] != "blend" || names[1] != "weight" {
		t.Errorf("property names = %v", names)
	}
	if values := p.frames[0].data.PropertyValues; len(values) != 2 || values[0] != 0.1 || values[1] != 0.5 {
		t.Errorf("property values = %v", values)
	}
}
