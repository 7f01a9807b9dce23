package streamobject

import (
	"errors"
	"testing"
)

func TestFactory_New(t *testing.T) {
	s := newTestScene(t)
	inactive := false

	tests := []struct {
		name       string
		spec       Spec
		wantKind   Kind
		wantName   string
		wantActive bool
		wantErr    error
	}{
		{
			name:       "active camera ignores name",
			spec:       Spec{Kind: KindActiveCamera, Name: "ignored"},
			wantKind:   KindActiveCamera,
			wantName:   string(ActiveCameraSubject),
			wantActive: true,
		},
		{
			name:       "camera inactive",
			spec:       Spec{Kind: KindCamera, Name: "cam", Target: "Producer Perspective", Active: &inactive},
			wantKind:   KindCamera,
			wantName:   "cam",
			wantActive: false,
		},
		{
			name:       "model defaults name to target",
			spec:       Spec{Kind: KindModel, Target: "Rig"},
			wantKind:   KindModel,
			wantName:   "Rig",
			wantActive: true,
		},
		{
			name:    "unknown kind",
			spec:    Spec{Kind: "light"},
			wantErr: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Factory{Provider: &recordingProvider{}, Scene: s}
			obj, err := f.New(tt.spec)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if KindOf(obj) != tt.wantKind {
				t.Errorf("kind = %q, want %q", KindOf(obj), tt.wantKind)
			}
			if string(obj.SubjectName()) != tt.wantName {
				t.Errorf("name = %q, want %q", obj.SubjectName(), tt.wantName)
			}
			if obj.SubjectName() != tt.spec.SubjectName() {
				t.Errorf("Spec.SubjectName = %q, object name = %q", tt.spec.SubjectName(), obj.SubjectName())
			}
			if obj.ActiveStatus() != tt.wantActive {
				t.Errorf("active = %v, want %v", obj.ActiveStatus(), tt.wantActive)
			}
		})
	}
}

func TestSpec_ValidateRequiresTarget(t *testing.T) {
	if err := (Spec{Kind: KindCamera}).Validate(); err == nil {
		t.Error("camera spec without target should fail validation")
	}
	if err := (Spec{Kind: KindActiveCamera}).Validate(); err != nil {
		t.Errorf("active camera spec: %v", err)
	}
}

func TestAcceptsMode(t *testing.T) {
	s := newTestScene(t)
	active := newActiveCamera(t, &recordingProvider{}, &switchableSource{})
	cam, err := NewCamera(&recordingProvider{}, s, "", "Producer Perspective", ModeCamera)
	if err != nil {
		t.Fatal(err)
	}
	model, err := NewModel(&recordingProvider{}, s, "", "Prop", ModeWorldSpace)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		obj  StreamObject
		mode int
		want bool
	}{
		{"active camera ignores modes", active, 42, true},
		{"camera role", cam, ModeCamera, true},
		{"camera transform only", cam, ModeTransformOnly, true},
		{"camera out of range", cam, 2, false},
		{"camera negative", cam, -1, false},
		{"model local space", model, ModeLocalSpace, true},
		{"model out of range", model, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AcceptsMode(tt.obj, tt.mode); got != tt.want {
				t.Errorf("AcceptsMode(%d) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}
