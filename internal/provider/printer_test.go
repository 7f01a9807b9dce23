package provider

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/subjectlink/internal/livelink"
)

func TestPrinter(t *testing.T) {
	tests := []struct {
		name      string
		only      livelink.SubjectName
		frames    bool
		wantLines []string
		skipLines []string
	}{
		{
			name:      "all subjects without frames",
			wantLines: []string{"static  cam", "static  other", "removed cam"},
			skipLines: []string{"frame"},
		},
		{
			name:      "frames enabled",
			frames:    true,
			wantLines: []string{"frame   cam", "fov="},
		},
		{
			name:      "single subject",
			only:      "other",
			frames:    true,
			wantLines: []string{"static  other"},
			skipLines: []string{"cam"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			mem := NewMemory()
			p := NewPrinter(mem, &out, tt.only, tt.frames)

			if err := p.UpdateSubjectStaticData("cam", livelink.RoleCamera, cameraStatic()); err != nil {
				t.Fatal(err)
			}
			if err := p.UpdateSubjectStaticData("other", livelink.RoleTransform, livelink.NewStaticData(livelink.RoleTransform)); err != nil {
				t.Fatal(err)
			}
			if err := p.UpdateSubjectFrameData("cam", livelink.NewFrameData(livelink.RoleCamera, time.Now())); err != nil {
				t.Fatal(err)
			}
			if err := p.RemoveSubject("cam"); err != nil {
				t.Fatal(err)
			}

			got := out.String()
			for _, want := range tt.wantLines {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, skip := range tt.skipLines {
				if strings.Contains(got, skip) {
					t.Errorf("output contains %q:\n%s", skip, got)
				}
			}
			if _, ok := mem.Subject("other"); !ok {
				t.Error("records not forwarded to inner provider")
			}
		})
	}
}

func TestPrinterSkipsRejectedFrames(t *testing.T) {
	var out strings.Builder
	p := NewPrinter(NewMemory(), &out, "", true)

	err := p.UpdateSubjectFrameData("ghost", livelink.NewFrameData(livelink.RoleTransform, time.Now()))
	if !errors.Is(err, livelink.ErrSubjectNotRegistered) {
		t.Fatalf("error = %v, want ErrSubjectNotRegistered", err)
	}
	if out.Len() != 0 {
		t.Errorf("rejected frame printed: %q", out.String())
	}
}
