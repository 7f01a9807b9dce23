package provider

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/smazurov/subjectlink/internal/livelink"
)

// Printer writes a line per accepted record after forwarding it to inner.
// Records rejected by inner are not printed.
type Printer struct {
	inner  livelink.Provider
	out    io.Writer
	mu     sync.Mutex
	only   livelink.SubjectName
	frames bool
}

var _ livelink.Provider = (*Printer)(nil)

// NewPrinter prints to out. When only is set, other subjects are forwarded
// silently. Frames are printed only when frames is true.
func NewPrinter(inner livelink.Provider, out io.Writer, only livelink.SubjectName, frames bool) *Printer {
	return &Printer{inner: inner, out: out, only: only, frames: frames}
}

func (p *Printer) wants(name livelink.SubjectName) bool {
	return p.only == "" || p.only == name
}

func (p *Printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// UpdateSubjectStaticData forwards and prints the declared capabilities.
func (p *Printer) UpdateSubjectStaticData(name livelink.SubjectName, role livelink.Role, data livelink.StaticData) error {
	if err := p.inner.UpdateSubjectStaticData(name, role, data); err != nil {
		return err
	}
	if !p.wants(name) {
		return nil
	}
	line := fmt.Sprintf("static  %-24s role=%s location=%t rotation=%t scale=%t animatable=%t",
		name, role,
		data.Transform.IsLocationSupported, data.Transform.IsRotationSupported,
		data.Transform.IsScaleSupported, data.Transform.Animatable)
	if data.Camera != nil {
		line += fmt.Sprintf(" camera=%q filmback=%gx%g", data.Camera.CameraName, data.Camera.FilmBackWidth, data.Camera.FilmBackHeight)
	}
	p.printf("%s\n", line)
	return nil
}

// UpdateSubjectFrameData forwards and prints the frame when enabled.
func (p *Printer) UpdateSubjectFrameData(name livelink.SubjectName, data livelink.FrameData) error {
	if err := p.inner.UpdateSubjectFrameData(name, data); err != nil {
		return err
	}
	if !p.frames || !p.wants(name) {
		return nil
	}
	loc := data.Transform.Location
	line := fmt.Sprintf("frame   %-24s t=%s loc=(%.2f, %.2f, %.2f)",
		name, data.WorldTime.Format(time.TimeOnly), loc.X, loc.Y, loc.Z)
	if data.Camera != nil {
		line += fmt.Sprintf(" fov=%.2f focal=%.2f", data.Camera.FieldOfView, data.Camera.FocalLength)
	}
	p.printf("%s\n", line)
	return nil
}

// RemoveSubject forwards and prints the removal.
func (p *Printer) RemoveSubject(name livelink.SubjectName) error {
	if err := p.inner.RemoveSubject(name); err != nil {
		return err
	}
	if p.wants(name) {
		p.printf("removed %s\n", name)
	}
	return nil
}
