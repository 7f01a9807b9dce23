package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smazurov/subjectlink/internal/streamobject"
)

func TestLoadSubjectsMissingFile(t *testing.T) {
	specs, err := LoadSubjects(filepath.Join(t.TempDir(), "subjects.toml"))
	if err != nil {
		t.Fatalf("LoadSubjects failed: %v", err)
	}
	if len(specs) != 1 || specs[0].Kind != streamobject.KindActiveCamera {
		t.Errorf("expected default active camera, got %+v", specs)
	}
}

func TestLoadSubjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subjects.toml")
	content := `
version = 1

[[subjects]]
kind = "active_camera"
active = false

[[subjects]]
kind = "camera"
name = "Witness"
target = "Witness Camera"
mode = 1
send_animatable = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	specs, err := LoadSubjects(path)
	if err != nil {
		t.Fatalf("LoadSubjects failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].IsActive() {
		t.Error("active camera should be inactive")
	}
	want := streamobject.Spec{Kind: streamobject.KindCamera, Name: "Witness", Target: "Witness Camera", Mode: 1, SendAnimatable: true}
	if specs[1] != want {
		t.Errorf("got %+v, want %+v", specs[1], want)
	}
	if err := ValidateSubjects(specs); err != nil {
		t.Errorf("ValidateSubjects failed: %v", err)
	}
}

func TestLoadSubjectsInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subjects.toml")
	if err := os.WriteFile(path, []byte("[[subjects]\nkind ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSubjects(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateSubjects(t *testing.T) {
	tests := []struct {
		name    string
		specs   []streamobject.Spec
		wantErr string
	}{
		{"empty", nil, ""},
		{"unknown kind", []streamobject.Spec{{Kind: "light"}}, "subjects[0]"},
		{"missing target", []streamobject.Spec{{Kind: streamobject.KindModel}}, "requires a target"},
		{
			"duplicate name",
			[]streamobject.Spec{
				{Kind: streamobject.KindModel, Target: "Prop"},
				{Kind: streamobject.KindCamera, Name: "Prop", Target: "Cam"},
			},
			"already defined by subjects[0]",
		},
		{
			"two active cameras",
			[]streamobject.Spec{{Kind: streamobject.KindActiveCamera}, {Kind: streamobject.KindActiveCamera}},
			"EditorActiveCamera",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubjects(tt.specs)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %v should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSubjectsManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "subjects.toml")
	sm := NewSubjectsManager(path)
	if err := sm.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sm.Path() != path {
		t.Errorf("Path() = %q", sm.Path())
	}

	spec := streamobject.Spec{Kind: streamobject.KindModel, Target: "Prop"}
	if err := sm.Put("Prop", spec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Rename in place.
	renamed := spec
	renamed.Name = "Hero Prop"
	if err := sm.Put("Prop", renamed); err != nil {
		t.Fatalf("Put rename failed: %v", err)
	}

	reloaded := NewSubjectsManager(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	specs := reloaded.Specs()
	if len(specs) != 2 || specs[1].SubjectName() != "Hero Prop" {
		t.Fatalf("unexpected specs after reload: %+v", specs)
	}

	if err := sm.Put("x", streamobject.Spec{Kind: "light"}); err == nil {
		t.Error("Put should validate the spec")
	}

	if err := sm.Remove("Hero Prop"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := sm.Remove("Hero Prop"); !errors.Is(err, ErrSubjectNotConfigured) {
		t.Errorf("second Remove = %v, want ErrSubjectNotConfigured", err)
	}
	if len(sm.Specs()) != 1 {
		t.Errorf("expected only the active camera left, got %+v", sm.Specs())
	}
}
